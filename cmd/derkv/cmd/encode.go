package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/derkv/pkg/codec"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a key/value record",
	Long: `Encode a key/value record as canonical DER and print it.

The key is required; the value may be empty.

Examples:
  derkv encode --key 42 --value hello
  derkv encode --key -1 --value-hex 00ff --output base64`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		record := &codec.Record{}
		if cmd.Flags().Changed("key") {
			key, _ := cmd.Flags().GetInt64("key")
			record.Key = &key
		}

		value, _ := cmd.Flags().GetString("value")
		record.Value = []byte(value)
		if valueHex, _ := cmd.Flags().GetString("value-hex"); valueHex != "" {
			decoded, err := hex.DecodeString(valueHex)
			if err != nil {
				return fmt.Errorf("invalid --value-hex: %w", err)
			}
			record.Value = decoded
		}

		encoded, err := container.GetCodec().Encode(record)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}

		text, err := formatBytes(encoded, outputFormat(cmd))
		if err != nil {
			return err
		}

		container.GetLogger().Debug("encoded record",
			zap.Stringer("record", record),
			zap.Int("bytes", len(encoded)),
		)
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().Int64P("key", "k", 0, "Record key (required)")
	encodeCmd.Flags().StringP("value", "v", "", "Record value as text")
	encodeCmd.Flags().String("value-hex", "", "Record value as hex")
	encodeCmd.MarkFlagsMutuallyExclusive("value", "value-hex")
}
