package session

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

func TestParseToken(t *testing.T) {
	issued := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	millis := issued.UnixNano() / int64(time.Millisecond)

	tests := []struct {
		name        string
		token       string
		wantClassID string
		wantIssued  time.Time
		wantErr     error
	}{
		{name: "empty", token: "", wantErr: ErrMalformedToken},
		{name: "no separator", token: "CLASS1709542800000", wantErr: ErrMalformedToken},
		{name: "no class id", token: "-1709542800000", wantErr: ErrMalformedToken},
		{name: "no timestamp", token: "CLASS-", wantErr: ErrMalformedToken},
		{name: "non numeric timestamp", token: "CLASS-abc", wantErr: ErrMalformedToken},
		{name: "negative timestamp", token: "CLASS--5", wantErr: ErrMalformedToken},
		{name: "zero timestamp", token: "CLASS-0", wantErr: ErrMalformedToken},
		{name: "invalid class id", token: "CS 101-1709542800000", wantErr: ErrMalformedToken},
		{name: "default class", token: makeToken("CLASS", millis), wantClassID: "CLASS", wantIssued: issued},
		{name: "class with underscore", token: makeToken("CS_101", millis), wantClassID: "CS_101", wantIssued: issued},
		{name: "surrounding spaces", token: "  " + makeToken("CS001", millis) + "\n", wantClassID: "CS001", wantIssued: issued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classID, issuedAt, err := ParseToken(tt.token)
			if err != tt.wantErr {
				t.Fatalf("ParseToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if classID != tt.wantClassID {
				t.Errorf("ParseToken() classID = %q, want %q", classID, tt.wantClassID)
			}
			if !issuedAt.Equal(tt.wantIssued) {
				t.Errorf("ParseToken() issuedAt = %v, want %v", issuedAt, tt.wantIssued)
			}
			if got := IsWellFormed(tt.token); got != (tt.wantErr == nil) {
				t.Errorf("IsWellFormed() = %v, want %v", got, tt.wantErr == nil)
			}
		})
	}
}

func TestNextMillis(t *testing.T) {
	r := NewRegistry(nil, "")
	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	base := now.UnixNano() / int64(time.Millisecond)

	if got := r.nextMillis(now); got != base {
		t.Fatalf("nextMillis() = %d, want %d", got, base)
	}
	if got := r.nextMillis(now); got != base+1 {
		t.Errorf("nextMillis() same instant = %d, want %d", got, base+1)
	}
	if got := r.nextMillis(now.Add(-time.Second)); got != base+2 {
		t.Errorf("nextMillis() clock went back = %d, want %d", got, base+2)
	}
	if got := r.nextMillis(now.Add(time.Second)); got != base+1000 {
		t.Errorf("nextMillis() later = %d, want %d", got, base+1000)
	}
}

func TestParseToken_MatchesClassIDValidator(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	type form struct {
		ClassID string `json:"class_id" validate:"classid"`
	}
	for _, id := range []string{"CS001", "CS_101", "cs", "CS-101", "CS 101", "CS.1", "é"} {
		t.Run(id, func(t *testing.T) {
			validErr := validate.Struct(form{ClassID: id})
			_, _, parseErr := ParseToken(makeToken(id, 1709542800000))
			if (validErr == nil) != (parseErr == nil) {
				t.Errorf("classid validation err = %v, ParseToken() err = %v", validErr, parseErr)
			}
		})
	}
}
