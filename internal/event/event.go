// Package event parses the AWS Organizations events that trigger an
// account cleanup: CreateAccountResult and InviteAccountToOrganization.
package event

import "fmt"

// Supported eventName values.
const (
	EventCreateAccount = "CreateAccountResult"
	EventInviteAccount = "InviteAccountToOrganization"
)

// AccountEvent is the CloudWatch/EventBridge envelope for the
// Organizations events this function subscribes to. Only the fields
// needed to extract the target account id are modeled.
type AccountEvent struct {
	Detail Detail `json:"detail"`
}

// Detail carries the Organizations event body. ServiceEventDetails is
// set on CreateAccountResult events, RequestParameters on
// InviteAccountToOrganization events.
type Detail struct {
	EventName           string               `json:"eventName"`
	ServiceEventDetails *ServiceEventDetails `json:"serviceEventDetails,omitempty"`
	RequestParameters   *RequestParameters   `json:"requestParameters,omitempty"`
}

// ServiceEventDetails is the CreateAccountResult payload.
type ServiceEventDetails struct {
	CreateAccountStatus CreateAccountStatus `json:"createAccountStatus"`
}

// CreateAccountStatus reports the result of account creation.
type CreateAccountStatus struct {
	AccountID string `json:"accountId"`
	State     string `json:"state"`
}

// RequestParameters is the InviteAccountToOrganization payload.
type RequestParameters struct {
	Target Target `json:"target"`
}

// Target identifies the invited account.
type Target struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// AccountID extracts the target account id for the supported event
// shapes. Unknown event names or payloads missing the id are an error
// so the platform's redelivery and alerting can kick in.
func (e AccountEvent) AccountID() (string, error) {
	switch e.Detail.EventName {
	case EventCreateAccount:
		if e.Detail.ServiceEventDetails == nil || e.Detail.ServiceEventDetails.CreateAccountStatus.AccountID == "" {
			return "", fmt.Errorf("%s event is missing createAccountStatus.accountId", EventCreateAccount)
		}
		return e.Detail.ServiceEventDetails.CreateAccountStatus.AccountID, nil
	case EventInviteAccount:
		if e.Detail.RequestParameters == nil || e.Detail.RequestParameters.Target.ID == "" {
			return "", fmt.Errorf("%s event is missing requestParameters.target.id", EventInviteAccount)
		}
		return e.Detail.RequestParameters.Target.ID, nil
	default:
		return "", fmt.Errorf("unsupported event name '%s'", e.Detail.EventName)
	}
}
