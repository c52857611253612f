package auth

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("MauvaisMDP", hash)
	req.NoError(err)
	req.False(match)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)

	valid := RegisterRequest{
		Email:     "test@example.com",
		Password:  "ComplexPass123!",
		Username:  "tester",
		FirstName: "Test",
		LastName:  "User",
	}

	tests := []struct {
		name    string
		modify  func(r *RegisterRequest)
		wantErr bool
	}{
		{"Valid request", func(r *RegisterRequest) {}, false},
		{"Valid request with role", func(r *RegisterRequest) { r.Role = "admin" }, false},
		{"Invalid email", func(r *RegisterRequest) { r.Email = "notanemail" }, true},
		{"Password too short", func(r *RegisterRequest) { r.Password = "Short1!" }, true},
		{"Missing digit", func(r *RegisterRequest) { r.Password = "NoDigitPassword!" }, true},
		{"Missing special char", func(r *RegisterRequest) { r.Password = "NoSpecialChar1234" }, true},
		{"Missing uppercase", func(r *RegisterRequest) { r.Password = "nouppercase12345!" }, true},
		{"Password too long (edge case)", func(r *RegisterRequest) { r.Password = strings.Repeat("a", 73) }, true},
		{"Missing username", func(r *RegisterRequest) { r.Username = "" }, true},
		{"Unknown role", func(r *RegisterRequest) { r.Role = "superuser" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := valid
			tt.modify(&request)
			err := ValidateRegister(request)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

// The registration payload uses snake_case field names on the wire; they
// must land in the struct fields or required validation rejects the request.
func TestRegisterRequest_DecodesWireFieldNames(t *testing.T) {
	req := require.New(t)

	payload := `{
		"email": "alice@example.org",
		"password": "ComplexPass123!",
		"username": "alice",
		"first_name": "Alice",
		"last_name": "Martin",
		"phone_number": "+33612345678",
		"role": "host"
	}`

	var request RegisterRequest
	req.NoError(json.Unmarshal([]byte(payload), &request))
	req.Equal("Alice", request.FirstName)
	req.Equal("Martin", request.LastName)
	req.Equal("+33612345678", request.PhoneNumber)
	req.Equal("host", request.Role)
	req.NoError(ValidateRegister(request))
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
