package http

// Error codes used in the error envelope.
const (
	CodeAlreadyRegistered        = "ALREADY_REGISTERED"
	CodeUserNotFound             = "USER_NOT_FOUND"
	CodeEmailNotConfirmed        = "EMAIL_NOT_CONFIRMED"
	CodeIncorrectCredentials     = "INCORRECT_CREDENTIALS"
	CodeRefreshTokenNotRetrieved = "REFRESH_TOKEN_NOT_RETRIEVED"
	CodeIDTokenNotRetrieved      = "ID_TOKEN_NOT_RETRIEVED"
	CodeBadRefreshToken          = "BAD_REFRESH_TOKEN"
	CodeBadResetToken            = "BAD_RESET_TOKEN"
	CodeBadConfirmToken          = "BAD_CONFIRM_TOKEN"
	CodeBadIDToken               = "BAD_ID_TOKEN"
	CodeEmailAlreadyConfirmed    = "EMAIL_ALREADY_CONFIRMED"
	CodeDocumentNotFound         = "DOCUMENT_NOT_FOUND"
	CodeInvalidRequest           = "INVALID_REQUEST"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeInternalServerError      = "INTERNAL_SERVER_ERROR"
)

// ErrorResponse is the envelope returned on every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewError(status int, code, message string) ErrorResponse {
	return ErrorResponse{Status: status, Code: code, Message: message}
}

type SignupResponse struct {
	UserID    uint64 `json:"userId"`
	UserEmail string `json:"userEmail"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type CategoryResponse struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Icon            string `json:"icon"`
	BackgroundColor string `json:"backgroundColor"`
	IconColor       string `json:"iconColor"`
}

type SubjectResponse struct {
	ID       uint64            `json:"id"`
	Name     string            `json:"name"`
	Category *CategoryResponse `json:"category,omitempty"`
}

type OfferResponse struct {
	ID               uint64           `json:"id"`
	AuthorID         uint64           `json:"authorId"`
	AuthorRole       string           `json:"authorRole"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Price            float64          `json:"price"`
	ProficiencyLevel string           `json:"proficiencyLevel"`
	Language         string           `json:"language"`
	Subject          *SubjectResponse `json:"subject,omitempty"`
}
