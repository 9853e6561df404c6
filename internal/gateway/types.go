package gateway

// ChargeData — состояние входящего платежа по данным шлюза.
type ChargeData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"` // В минорных единицах
	Status    string `json:"status"` // success, failed, abandoned
	Currency  string `json:"currency"`
}

// VerifyChargeResponse — конверт ответа шлюза на проверку платежа.
type VerifyChargeResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    ChargeData `json:"data"`
}

// InitiateTransferRequest — запрос на выплату сохранённому получателю.
type InitiateTransferRequest struct {
	Source    string `json:"source"` // Всегда balance
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reference string `json:"reference"`
	Reason    string `json:"reason,omitempty"`
}

// InitiateTransferResponse — конверт ответа шлюза на выплату.
type InitiateTransferResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    TransferData `json:"data"`
}

// TransferData — принятая шлюзом выплата; итог придёт вебхуком.
type TransferData struct {
	Reference    string `json:"reference"`
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"` // pending, success, failed, reversed
}

// WebhookEvent — событие вебхука шлюза.
type WebhookEvent struct {
	Event string `json:"event"` // charge.success, transfer.success, transfer.failed
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
	} `json:"data"`
}
