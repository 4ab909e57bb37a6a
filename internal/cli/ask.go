package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/harun/retailx/internal/tracing"
	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question about the retail data",
	Long: `Answer one question about the retail data.
The question is taken from the arguments, or read as one line from stdin.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		fmt.Fprint(out, "Enter your question: ")
		line, err := readLine(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read question: %w", err)
		}
		question = line
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := tracing.NewRequestContext(cmd.Context())
	store, err := a.openStore(ctx, true)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := a.newRunner(store, nil)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx, question)
	if err != nil {
		return err
	}

	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(out, "Answer: %s\n", result.Answer)
	return nil
}

// readLine reads one line without its terminator. EOF after text is not an
// error.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
