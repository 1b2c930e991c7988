package apierror

// GenericMessage показывается для всех неклассифицированных ошибок
const GenericMessage = "An error occurred. Please try again later."

var messages = map[Kind]string{
	KindBadRequest:         "Bad request. Please check your inputs.",
	KindUnauthorized:       "Unauthorized. Please check your credentials.",
	KindForbidden:          "Forbidden. Access denied.",
	KindNotFound:           "Resource not found.",
	KindMethodNotAllowed:   "Method not allowed. Please try again later.",
	KindConflict:           "Conflict. User already exists.",
	KindServerError:        "Internal server error. Please try again later.",
	KindServiceUnavailable: "Service unavailable. Please try again later.",
	KindNetwork:            "No response received. Please try again later.",
}

// На форме входа 401/403 и 404 звучат иначе
var signInMessages = map[Kind]string{
	KindUnauthorized: "Invalid email or password.",
	KindForbidden:    "Invalid email or password.",
	KindNotFound:     "User not found",
}

// Message returns the user-facing text for err. Raw error details are never exposed.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return MessageFor(KindOf(err))
}

// MessageFor returns the user-facing text for a kind.
func MessageFor(k Kind) string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return GenericMessage
}

// SignInMessage is Message with the wording used on the sign-in form.
func SignInMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := signInMessages[KindOf(err)]; ok {
		return msg
	}
	return Message(err)
}
