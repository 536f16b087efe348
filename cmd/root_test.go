package cmd

import "testing"

func TestAllSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"create":   false,
		"update":   false,
		"list":     false,
		"show":     false,
		"versions": false,
		"restore":  false,
		"delete":   false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCreateCommandFlags(t *testing.T) {
	for _, name := range []string{"spec-file", "name", "category", "no-register"} {
		if createCmd.Flags().Lookup(name) == nil {
			t.Errorf("create is missing --%s", name)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"provider", "model", "api-key", "output-dir"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("root is missing --%s", name)
		}
	}
}
