package game

import "testing"

func rotation(alive ...bool) []*Player {
	players := make([]*Player, len(alive))
	for i, a := range alive {
		players[i] = &Player{ID: string(rune('a' + i)), Alive: a}
	}
	return players
}

func TestNextAlive(t *testing.T) {
	tests := []struct {
		name      string
		players   []*Player
		fromIndex int
		excludeID string
		want      string
		wantErr   bool
	}{
		{"simple successor", rotation(true, true, true), 0, "", "b", false},
		{"wraps around", rotation(true, true, true), 2, "", "a", false},
		{"skips one dead seat", rotation(true, false, true), 0, "", "c", false},
		{"skips run of dead seats", rotation(true, false, false, true), 0, "", "d", false},
		{"wraps past dead tail", rotation(true, true, false, false), 1, "", "a", false},
		{"exclude skips self", rotation(true, false, false), 0, "a", "", true},
		{"exclude passes to other", rotation(true, false, true), 0, "a", "c", false},
		{"nobody alive", rotation(false, false), 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nextAlive(tt.players, tt.fromIndex, tt.excludeID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("nextAlive() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("nextAlive() = %q, want %q", got, tt.want)
			}
		})
	}
}
