package regsvc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homecase-registration/internal/domain"
	"github.com/mkrupp/homecase-registration/internal/svc/regsvc"
)

func TestValidateUser(t *testing.T) {
	t.Parallel()

	v := regsvc.NewValidator()

	tests := []struct {
		name      string
		user      domain.User
		wantField string
	}{
		{
			name: "all present",
			user: domain.User{Username: "alice", Email: "alice@test.com", Password: "pw"},
		},
		{
			name: "password with surrounding spaces is present",
			user: domain.User{Username: "alice", Email: "alice@test.com", Password: "  pw  "},
		},
		{
			name:      "empty username",
			user:      domain.User{Username: "", Email: "alice@test.com", Password: "pw"},
			wantField: "username",
		},
		{
			name:      "whitespace email",
			user:      domain.User{Username: "alice", Email: " \t ", Password: "pw"},
			wantField: "email",
		},
		{
			name:      "whitespace password",
			user:      domain.User{Username: "alice", Email: "alice@test.com", Password: "   "},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := regsvc.ValidateUser(v, tt.user)
			if tt.wantField == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, domain.ErrMissingField)
			require.Contains(t, err.Error(), tt.wantField)
		})
	}
}
