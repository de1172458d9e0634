package cmd

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zantaku/Zantaku-sub000/history"
	"github.com/zantaku/Zantaku-sub000/resolve"
	"github.com/zantaku/Zantaku-sub000/settings"
)

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().Bool("settings", false, "Generate the JSON Schema for persisted player settings")
	schemaCmd.Flags().Bool("history", false, "Generate the JSON Schema for watch history records")
	schemaCmd.MarkFlagsMutuallyExclusive("settings", "history")
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON Schema of the media descriptor accepted by play",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "descriptor", "subtitle", "record", "settings":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("settings")):
			schema = reflector.Reflect(&settings.Settings{})
		case lo.Must(cmd.Flags().GetBool("history")):
			schema = reflector.Reflect(map[string]*history.Record{})
		default:
			schema = reflector.Reflect(&resolve.Descriptor{})
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
