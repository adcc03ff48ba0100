package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrCountryRequired       = errors.New("team country is required")
	ErrInvalidTier           = errors.New("team tier must be 1, 2 or 3")
	ErrSquadInvalid          = errors.New("team squad is invalid")
	ErrTournamentNameMissing = errors.New("tournament name is required")
	ErrNotEnoughTeams        = errors.New("tournament requires exactly 8 registered teams")
	ErrTournamentNotActive   = errors.New("tournament is not active")
	ErrTournamentStarted     = errors.New("tournament has already started")
	ErrMatchAlreadyPlayed    = errors.New("match has already been played")
	ErrMatchTeamsUnknown     = errors.New("match is waiting for an earlier round to finish")
	ErrFlagStorageDisabled   = errors.New("flag storage is not configured")

	// Ошибки конфликтов
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrTeamCountryConflict    = errors.New("country already has a registered team")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
)
