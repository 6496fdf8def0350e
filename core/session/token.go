package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

// makeToken builds a session token: "<classID>-<unix millis>".
func makeToken(classID string, millis int64) string {
	return classID + "-" + strconv.FormatInt(millis, 10)
}

// ParseToken checks that token has the "<classID>-<unix millis>" shape
// and returns its parts. It says nothing about whether the session is active.
func ParseToken(token string) (classID string, issuedAt time.Time, err error) {
	token = strings.TrimSpace(token)
	idx := strings.LastIndex(token, "-")
	if idx <= 0 || idx == len(token)-1 {
		return "", time.Time{}, ErrMalformedToken
	}

	classID = token[:idx]
	if !core.ClassIDRegex.MatchString(classID) {
		return "", time.Time{}, ErrMalformedToken
	}
	millis, err := strconv.ParseInt(token[idx+1:], 10, 64)
	if err != nil || millis <= 0 {
		return "", time.Time{}, ErrMalformedToken
	}
	return classID, time.Unix(0, millis*int64(time.Millisecond)).UTC(), nil
}

// IsWellFormed reports whether token passes ParseToken.
func IsWellFormed(token string) bool {
	_, _, err := ParseToken(token)
	return err == nil
}
