package twilio

import (
	"context"
	"errors"
	"fmt"

	twiliosdk "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the subset of the Twilio v2010 API the client needs.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type Client struct {
	api  MessageCreator
	from string
}

func NewClient(accountSID, authToken, from string) *Client {
	c := &Client{from: from}
	if accountSID != "" && authToken != "" {
		rest := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
		c.api = rest.Api
	}
	return c
}

// NewClientWithAPI wraps an already built API, e.g. a fake in tests.
func NewClientWithAPI(api MessageCreator, from string) *Client {
	return &Client{api: api, from: from}
}

func (c *Client) Configured() bool {
	return c.api != nil && c.from != ""
}

// SendSMS creates one message. Success means Twilio accepted (queued) it, not
// that the handset received it.
func (c *Client) SendSMS(ctx context.Context, input SendSMSInput) (*MessageResponse, error) {
	if !c.Configured() {
		return nil, errors.New("twilio não configurado")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(input.To)
	params.SetFrom(c.from)
	params.SetBody(input.Body)

	msg, err := c.api.CreateMessage(params)
	if err != nil {
		var apiErr *twclient.TwilioRestError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("twilio api error %d (code %d): %s", apiErr.Status, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}

	out := &MessageResponse{}
	if msg != nil {
		if msg.Sid != nil {
			out.SID = *msg.Sid
		}
		if msg.Status != nil {
			out.Status = *msg.Status
		}
	}
	return out, nil
}
