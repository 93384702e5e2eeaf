package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [encoded|-]",
	Short: "Decode a single record",
	Long: `Decode one DER encoded record and print it as YAML.

The record is read from the argument, or from stdin when the argument is
omitted or "-". Text input uses the configured output format (hex or base64);
--raw reads binary DER from stdin instead.

Examples:
  derkv decode 300702010504026869
  derkv encode --key 7 --value x | derkv decode
  derkv decode --raw < record.der`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		var input []byte
		if len(args) == 1 && args[0] != "-" {
			if raw {
				return fmt.Errorf("--raw reads from stdin and takes no argument")
			}
			input = []byte(args[0])
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			input = data
		}

		data := input
		if !raw {
			parsed, err := parseBytes(strings.TrimSpace(string(input)), outputFormat(cmd))
			if err != nil {
				return err
			}
			data = parsed
		}

		record, err := container.GetCodec().Decode(data)
		if err != nil {
			container.GetLogger().Debug("decode failed", zap.Int("bytes", len(data)), zap.Error(err))
			return fmt.Errorf("failed to decode record: %w", err)
		}

		return outputRecord(cmd.OutOrStdout(), record)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("raw", false, "Read binary DER from stdin")
}
