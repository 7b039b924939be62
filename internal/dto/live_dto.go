package dto

type LiveEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
