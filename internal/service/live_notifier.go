package service

// LiveNotifier pushes UI state changes to the open tabs of a browser client.
type LiveNotifier interface {
	Notify(clientID, eventType string, data interface{})
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string, interface{}) {}

func NewNoopNotifier() LiveNotifier {
	return noopNotifier{}
}
