package expenses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/teelane/budget-manager/cmd/cli/config"
	"github.com/teelane/budget-manager/cmd/cli/output"
)

type expense struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	UserID      int    `json:"user_id"`
}

// ==========================
// CLI Command Init
// ==========================
func InitExpenses(rootCmd *cobra.Command) {
	expensesCmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage expenses",
	}

	expensesCmd.AddCommand(
		listExpensesCmd(),
		addExpenseCmd(),
		deleteExpenseCmd(),
	)

	rootCmd.AddCommand(expensesCmd)
}

// ==========================
// LIST
// ==========================
func listExpensesCmd() *cobra.Command {
	var userID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/expenses"
			if userID != "" {
				path += "?user_id=" + userID
			}

			var list []expense
			if err := apiGet(path, &list); err != nil {
				fmt.Println("Error:", err)
				return
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				enc.Encode(list)
				return
			}

			rows := make([][]interface{}, 0, len(list))
			for _, e := range list {
				rows = append(rows, []interface{}{e.ID, e.Title, e.Description, e.Amount, e.Date, e.Category, e.UserID})
			}
			output.RenderTable([]string{"ID", "Title", "Description", "Amount", "Date", "Category", "User"}, rows)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Only show expenses for this user id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

// ==========================
// ADD
// ==========================
func addExpenseCmd() *cobra.Command {
	var title, description, category string
	var amount, userID int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Long:  "Record a new expense. The server stamps the date.",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"title":       title,
				"description": description,
				"amount":      amount,
				"category":    category,
				"user_id":     userID,
			}
			body, _ := json.Marshal(payload)

			resp, err := http.Post(config.APIURL()+"/api/expenses", "application/json", bytes.NewBuffer(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			data, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("API error: %s", string(data))
			}

			var out struct {
				ID int `json:"id"`
			}
			if err := json.Unmarshal(data, &out); err != nil {
				return err
			}

			fmt.Printf("Expense added with id %d.\n", out.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Optional short title")
	cmd.Flags().StringVar(&description, "description", "", "What the money went on")
	cmd.Flags().IntVar(&amount, "amount", 0, "Amount spent")
	cmd.Flags().StringVar(&category, "category", "", "Expense category")
	cmd.Flags().IntVar(&userID, "user", 0, "Owning user id")
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("user")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, _ := http.NewRequest("DELETE", config.APIURL()+"/api/expenses/"+args[0], nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("API error: %s", string(b))
			}

			fmt.Println("Expense deleted.")
			return nil
		},
	}
}

func apiGet(path string, out interface{}) error {
	resp, err := http.Get(config.APIURL() + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}
