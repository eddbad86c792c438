package models

type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

func (r Role) Valid() bool {
	switch r {
	case System, User, Assistant:
		return true
	}
	return false
}

type FailureKind string

const (
	Timeout           FailureKind = "timeout"
	HTTPStatus        FailureKind = "http_status"
	NetworkError      FailureKind = "network"
	MalformedResponse FailureKind = "malformed_response"
	UnexpectedError   FailureKind = "unexpected" // catch-all
)
