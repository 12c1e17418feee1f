package twilio

type SendSMSInput struct {
	To   string
	Body string
}

type MessageResponse struct {
	SID    string
	Status string
}
