package entity

import "time"

// Credential - bearer-токен оракула. Заменяется целиком при обновлении.
type Credential struct {
	Token      string
	AcquiredAt time.Time
}

func (c Credential) IsZero() bool {
	return c.Token == ""
}
