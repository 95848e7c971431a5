package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/navarrastar/contact-ingest/pkg/api"
	"github.com/navarrastar/contact-ingest/pkg/config"
	"github.com/navarrastar/contact-ingest/pkg/models"
)

// newSubmitCmd pushes one submission through the same workflow as the
// HTTP endpoint and prints the response.
func newSubmitCmd() *cobra.Command {
	var email, lastName, slot string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create/update one contact and tag it for a slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]interface{}{
				"email":       email,
				"lastName":    lastName,
				cfg.SlotField: slot,
			}
			res := api.NewServiceFromConfig(cfg).Ingest(cmd.Context(), models.NewPayload(body))

			out, err := json.MarshalIndent(map[string]interface{}{
				"status": res.Status,
				"body":   res.Body,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(out))

			if res.Status >= http.StatusBadRequest {
				exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&lastName, "last-name", "", "contact last name")
	cmd.Flags().StringVar(&slot, "slot", "", "slot identifier")
	return cmd
}

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Print the slot to tag table in effect",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "source: %s\n", cfg.SlotSource)
			for _, slot := range cfg.SlotTags.Slots() {
				id, err := cfg.SlotTags.Resolve(slot)
				switch {
				case err == nil:
					fmt.Fprintf(stdout, "%s\t%d\n", slot, id)
				case cfg.SlotSource == config.SlotSourceEnv:
					fmt.Fprintf(stdout, "%s\t(%s: %v)\n", slot, config.SlotEnvName(slot), err)
				default:
					fmt.Fprintf(stdout, "%s\t(%v)\n", slot, err)
				}
			}
		},
	}
}
