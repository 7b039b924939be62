package dto

type CreditInfo struct {
	Balance int64 `json:"balance"`
}

type UserInfo struct {
	Credits *CreditInfo `json:"credits"`
}

type InfoResponse struct {
	Status string    `json:"status"`
	Info   *UserInfo `json:"info"`
}

type UnauthorizedResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
