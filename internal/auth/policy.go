package auth

import "crypto/subtle"

// Policy decides whether a username/password pair may enter the admin area.
type Policy interface {
	IsAuthorized(username, password string) bool
}

// StaticPolicy accepts exactly one configured credential pair.
type StaticPolicy struct {
	username string
	password string
}

func NewStaticPolicy(username, password string) *StaticPolicy {
	return &StaticPolicy{username: username, password: password}
}

func (p *StaticPolicy) IsAuthorized(username, password string) bool {
	if p.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
	return userOK && passOK
}
