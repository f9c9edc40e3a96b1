package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/snipfmt/convert"
)

type operationSpec struct {
	op    convert.Operation
	short string
}

var (
	opFormat  = operationSpec{convert.OpFormat, "Pretty-print JSON or YAML in its own format"}
	opParse   = operationSpec{convert.OpParse, "Print the parsed structure of JSON or YAML"}
	opConvert = operationSpec{convert.OpConvert, "Convert JSON to YAML or YAML to JSON"}
)

func newOperationCommand(spec operationSpec) *cobra.Command {
	var (
		from     string
		showMode bool
	)

	cmd := &cobra.Command{
		Use:   string(spec.op) + " [file]",
		Short: spec.short,
		Long:  spec.short + ".\n\nThe input is read from file, or from stdin when file is omitted or \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(from)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			res, err := convert.New(nil).DoAs(cmd.Context(), spec.op, input, mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showMode {
				fmt.Fprintf(cmd.ErrOrStderr(), "mode: %s\n", res.Mode)
			}
			if _, err := io.WriteString(out, res.Output); err != nil {
				return err
			}
			if !strings.HasSuffix(res.Output, "\n") {
				_, err = io.WriteString(out, "\n")
			}
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "parse the input as json or yaml instead of detecting")
	cmd.Flags().BoolVar(&showMode, "show-mode", false, "print the result mode to stderr")
	return cmd
}

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Print whether the input is json or yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			mode := convert.Detect(input)
			if mode == convert.ModeUnknown {
				return convert.ErrUnknownMode
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), mode)
			return err
		},
	}
}

func parseMode(s string) (convert.Mode, error) {
	switch m := convert.Mode(strings.ToLower(s)); m {
	case "":
		return "", nil
	case convert.ModeJSON, convert.ModeYAML:
		return m, nil
	default:
		return "", fmt.Errorf("--from must be json or yaml, got %q", s)
	}
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
