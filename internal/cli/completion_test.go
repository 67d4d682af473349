package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		want       []string
	}{
		{"empty", "", []string{"svg", "png", "gif", "pdf", "dot"}},
		{"after one", "svg,", []string{"svg,png", "svg,gif", "svg,pdf", "svg,dot"}},
		{"after two", "png, pdf,", []string{"png, pdf,svg", "png, pdf,gif", "png, pdf,dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dir := completeFormats(nil, nil, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
			if dir&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestCompleteScripts(t *testing.T) {
	got, dir := completeScripts(nil, nil, "")
	if !slices.Equal(got, []string{"toml"}) || dir != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("completeScripts() = %v, %v", got, dir)
	}
	if got, dir := completeScripts(nil, []string{"tree.toml"}, ""); got != nil || dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second argument completion = %v, %v", got, dir)
	}
}
