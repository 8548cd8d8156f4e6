package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	rawJSON bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "splitledger-cli",
		Short:         "SplitLedger CLI tool",
		Long:          `A command line interface for interacting with the SplitLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the SplitLedger API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	root.PersistentFlags().BoolVar(&rawJSON, "json", false, "Print raw JSON responses")

	root.AddCommand(groupCmd(), memberCmd(), expenseCmd(), balancesCmd(), spendingCmd(), settleCmd())
	return root
}

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "group", Short: "Group operations"}

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodPost, "/api/v1/groups/", map[string]any{"name": args[0]}, nil)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get GROUP_ID",
		Short: "Show a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, groupPath(args[0], ""), nil, nil)
		},
	})

	return cmd
}

func memberCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "member", Short: "Membership operations"}

	var payout string
	add := &cobra.Command{
		Use:   "add GROUP_ID DISPLAY_NAME",
		Short: "Add a member to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"display_name": args[1], "payout_address": payout}
			return call(cmd, http.MethodPost, groupPath(args[0], "/members"), body, nil)
		},
	}
	add.Flags().StringVar(&payout, "payout", "", "Payout address")

	list := &cobra.Command{
		Use:   "list GROUP_ID",
		Short: "List members in membership order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, groupPath(args[0], "/members"), nil, printMembers)
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "expense", Short: "Expense operations"}

	var (
		currency     string
		category     string
		description  string
		participants []string
		shares       map[string]string
	)
	add := &cobra.Command{
		Use:   "add GROUP_ID PAYER_ID AMOUNT",
		Short: "Record an expense",
		Long:  "Record an expense. Without --participant it is split equally among all members.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"payer_id":    args[1],
				"amount":      args[2],
				"currency":    currency,
				"category":    category,
				"description": description,
			}
			if len(participants) > 0 {
				body["participant_ids"] = participants
			}
			if len(shares) > 0 {
				body["shares"] = shares
			}
			return call(cmd, http.MethodPost, groupPath(args[0], "/expenses"), body, nil)
		},
	}
	add.Flags().StringVar(&currency, "currency", "USD", "ISO currency code")
	add.Flags().StringVar(&category, "category", "", "Expense category")
	add.Flags().StringVar(&description, "description", "", "Free-text description")
	add.Flags().StringSliceVar(&participants, "participant", nil, "Participant member ID (repeatable)")
	add.Flags().StringToStringVar(&shares, "share", nil, "Participant weight, e.g. --share alice=2")

	var limit, offset int
	list := &cobra.Command{
		Use:   "list GROUP_ID",
		Short: "List expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("%s?limit=%d&offset=%d", groupPath(args[0], "/expenses"), limit, offset)
			return call(cmd, http.MethodGet, path, nil, printExpenses)
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(add, list)
	return cmd
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances GROUP_ID",
		Short: "Show per-currency balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, groupPath(args[0], "/balances"), nil, printBalances)
		},
	}
}

func spendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spending GROUP_ID",
		Short: "Show spending by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, groupPath(args[0], "/spending"), nil, nil)
		},
	}
}

func settleCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "settle", Short: "Settlement operations"}

	var member string
	scope := func() map[string]any {
		if member != "" {
			return map[string]any{"scope": "individual", "member_id": member}
		}
		return map[string]any{"scope": "full"}
	}

	plan := &cobra.Command{
		Use:   "plan GROUP_ID",
		Short: "Preview transfers without recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodPost, groupPath(args[0], "/settlements/plan"), scope(), printTransfers)
		},
	}

	run := &cobra.Command{
		Use:   "run GROUP_ID INITIATOR_ID",
		Short: "Plan and record a settlement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := scope()
			body["initiator_id"] = args[1]
			return call(cmd, http.MethodPost, groupPath(args[0], "/settlements"), body, printTransfers)
		},
	}

	list := &cobra.Command{
		Use:   "list GROUP_ID",
		Short: "List recorded settlements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, groupPath(args[0], "/settlements"), nil, nil)
		},
	}

	for _, c := range []*cobra.Command{plan, run} {
		c.Flags().StringVar(&member, "member", "", "Settle only this member's debts")
	}

	cmd.AddCommand(plan, run, list)
	return cmd
}

func groupPath(groupID, suffix string) string {
	return "/api/v1/groups/" + groupID + suffix
}

// call sends the request and prints the response with pretty, or as JSON
// when pretty is nil or --json is set.
func call(cmd *cobra.Command, method, path string, body any, pretty func(io.Writer, []byte) error) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, strings.TrimRight(baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	out := cmd.OutOrStdout()
	if pretty == nil || rawJSON {
		return printJSON(out, data)
	}
	return pretty(out, data)
}

func printJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		_, err = w.Write(data)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func printMembers(w io.Writer, data []byte) error {
	var resp struct {
		Members []struct {
			ID            string `json:"id"`
			DisplayName   string `json:"display_name"`
			PayoutAddress string `json:"payout_address"`
		} `json:"members"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPAYOUT")
	for _, m := range resp.Members {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, truncate(m.DisplayName, 24), truncate(m.PayoutAddress, 20))
	}
	return tw.Flush()
}

func printExpenses(w io.Writer, data []byte) error {
	var resp struct {
		Expenses []struct {
			ID          string `json:"id"`
			PayerID     string `json:"payer_id"`
			Amount      string `json:"amount"`
			Currency    string `json:"currency"`
			Category    string `json:"category"`
			Description string `json:"description"`
		} `json:"expenses"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPAYER\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, e := range resp.Expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n", e.ID, e.PayerID, e.Amount, e.Currency, e.Category, truncate(e.Description, 30))
	}
	return tw.Flush()
}

func printBalances(w io.Writer, data []byte) error {
	var resp struct {
		Balances []struct {
			MemberID string `json:"member_id"`
			Currency string `json:"currency"`
			Owed     string `json:"owed"`
			Owes     string `json:"owes"`
			Net      string `json:"net"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MEMBER\tCURRENCY\tOWED\tOWES\tNET\t")
	for _, b := range resp.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", b.MemberID, b.Currency, b.Owed, b.Owes, b.Net)
	}
	return tw.Flush()
}

func printTransfers(w io.Writer, data []byte) error {
	var resp struct {
		AlreadyRecorded bool `json:"already_recorded"`
		Transfers       []struct {
			From     string `json:"from_member_id"`
			To       string `json:"to_member_id"`
			Amount   string `json:"amount"`
			Currency string `json:"currency"`
		} `json:"transfers"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}

	if len(resp.Transfers) == 0 {
		_, err := fmt.Fprintln(w, "Nothing to settle")
		return err
	}

	for _, t := range resp.Transfers {
		fmt.Fprintf(w, "%s -> %s: %s %s\n", t.From, t.To, t.Amount, t.Currency)
	}
	if resp.AlreadyRecorded {
		fmt.Fprintln(w, "(already recorded)")
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
