package constant

const (
	ClientIDCookie   = "mc_client"
	IdentityCookie   = "mc_identity"
	OAuthStateCookie = "oauth_state"

	// Locals keys set by middleware.
	LocalsClientID = "client_id"
	LocalsIdentity = "identity_user_id"
)

const (
	LoginFailedMessage        = "Tên đăng nhập hoặc mật khẩu không đúng"
	LoginRequiredFieldMessage = "Vui lòng nhập đầy đủ thông tin"
	ProfileUnavailableMessage = "Đăng nhập thành công nhưng không thể tải thông tin người dùng"
	AccountExistsMessage      = "Tài khoản đã tồn tại"
)

const (
	EventLoginSucceeded      = "LOGIN_SUCCEEDED"
	EventLoginFailed         = "LOGIN_FAILED"
	EventProfileUnavailable  = "PROFILE_UNAVAILABLE"
	EventLogout              = "LOGOUT"
	EventChatTurn            = "CHAT_TURN"
	EventAnalysisCompleted   = "ANALYSIS_COMPLETED"
	EventAnalysisFailed      = "ANALYSIS_FAILED"
	EventAccountCreated      = "ACCOUNT_CREATED"
	EventServiceUserUpserted = "SERVICE_USER_UPSERTED"
)
