package client

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
)

func TestDisplayNameFallbackOrder(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000")

	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name: "full name wins over email",
			client: Client{
				ID:        id,
				FirstName: sql.NullString{String: "Dana", Valid: true},
				LastName:  sql.NullString{String: "Reyes", Valid: true},
				Email:     sql.NullString{String: "dana@corp.example", Valid: true},
			},
			want: "Dana Reyes",
		},
		{
			name: "first name only",
			client: Client{
				ID:        id,
				FirstName: sql.NullString{String: "Dana", Valid: true},
			},
			want: "Dana",
		},
		{
			name: "last name only",
			client: Client{
				ID:       id,
				LastName: sql.NullString{String: "Reyes", Valid: true},
			},
			want: "Reyes",
		},
		{
			name: "whitespace name falls back to email",
			client: Client{
				ID:        id,
				FirstName: sql.NullString{String: "   ", Valid: true},
				Email:     sql.NullString{String: "dana@corp.example", Valid: true},
			},
			want: "dana@corp.example",
		},
		{
			name:   "empty row falls back to short id",
			client: Client{ID: id},
			want:   "Client #a1b2c3d4",
		},
		{
			name: "blank email falls back to short id",
			client: Client{
				ID:    id,
				Email: sql.NullString{String: "  ", Valid: true},
			},
			want: "Client #a1b2c3d4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
