package reasoncodes

type ReasonCode string

const (
	ErrUnmarshal      ReasonCode = "UnmarshalError"
	ErrConfig         ReasonCode = "ConfigurationError"
	ErrRecordFetch    ReasonCode = "RecordFetchError"
	ErrHashMismatch   ReasonCode = "HashMismatchError"
	ErrDuplicate      ReasonCode = "DuplicateAttemptError"
	ErrInscription    ReasonCode = "InscriptionError"
	ErrOutcomeUnknown ReasonCode = "OutcomeUnknownError"
)
