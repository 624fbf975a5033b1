package catalog

import "testing"

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Laptops", "Laptops"},
		{"Laptop Spare Parts", "Laptop_Spare_Parts"},
		{"TV/Monitor Mounts", "TV-Monitor_Mounts"},
		{"Warranty & Support Extensions", "Warranty_and_Support_Extensions"},
		{"  Padded  ", "Padded"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SafeName(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
