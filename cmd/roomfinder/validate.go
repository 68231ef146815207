package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/roomfinder/internal/validation"
)

var errInvalid = errors.New("payload is invalid")

func validateCMD() *cobra.Command {
	var schemaRef string
	var validate = &cobra.Command{
		Use:   "validate key=value...",
		Short: "Validate a payload against a registered schema and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), schemaRef, args)
		},
	}
	validate.Flags().StringVarP(&schemaRef, "schema", "s", "room", "schema reference, name or name@version")
	return validate
}

func runValidate(w io.Writer, ref string, args []string) error {
	reg, err := validation.Builtin()
	if err != nil {
		return err
	}
	schema, err := reg.Lookup(ref)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(reg.Refs(), ", "))
	}
	payload, err := parsePairs(args)
	if err != nil {
		return err
	}

	res := validation.Validate(schema, payload)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.OK() {
		return errInvalid
	}
	return nil
}

func parsePairs(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q is not key=value", a)
		}
		out[k] = v
	}
	return out, nil
}
