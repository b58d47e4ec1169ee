package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"SeedWithWarehouse/internal/seedapi"
	"SeedWithWarehouse/internal/vdi"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var sendDryRun bool

var sendCmd = &cobra.Command{
	Use:   "send <markets|products|sales> [payload.json]",
	Short: "Compose a VDI transaction and post it to SEED",
	Long: `Compose a VDI transaction from a JSON payload, the same body the
/send/:type endpoint takes, and post it to SEED. Without a file the payload
is read from stdin.

Examples:
  seedvdi send markets market.json
  echo '{"config_name":"water"}' | seedvdi send products --dry-run`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "print the SOAP envelope instead of sending it")
}

func readPayload(in io.Reader) (map[string]interface{}, error) {
	body, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read payload")
	}
	req := make(map[string]interface{})
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Wrap(vdi.ErrValidation, "payload must be a JSON object")
	}
	return req, nil
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", args[1])
		}
		defer f.Close()
		in = f
	}
	req, err := readPayload(in)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}
	out, err := a.handler().Compose(args[0], req)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if sendDryRun {
		soap, err := vdi.ComposeSOAP(out.Header, out.Transaction, out.Mode)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, soap)
		return err
	}

	resp, err := a.client.SendVDI(context.Background(), out.Header, out.Transaction, out.Mode)
	if err != nil && !errors.Is(err, seedapi.ErrRejected) {
		return err
	}
	fmt.Fprintf(w, "transaction %s (%s) sent in %d attempt(s), status %d\n",
		out.Header.TransactionID, out.Header.Type, resp.Attempts, resp.StatusCode)
	fmt.Fprintln(w, resp.Body)
	return err
}
