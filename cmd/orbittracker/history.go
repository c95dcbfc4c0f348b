package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived predictions",
}

var historyListCmd = &cobra.Command{
	Use:   "list [star]",
	Short: "List archived predictions, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived prediction as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an archived prediction",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var (
	historyLimit  int
	historyOffset int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)

	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries (0 = all)")
	historyListCmd.Flags().IntVar(&historyOffset, "offset", 0, "Skip this many entries")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	star := ""
	if len(args) > 0 {
		star = args[0]
	}
	records, err := st.ListResults(cmd.Context(), star, historyLimit, historyOffset)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No archived predictions")
		return nil
	}

	fmt.Println("ID                                    Star                    Mode           Years    Final dist (ly)  Created")
	fmt.Println("------------------------------------------------------------------------------------------------------------------")
	for _, r := range records {
		fmt.Printf("%-36s  %-22s  %-13s  %7.1f  %15.4f  %s\n",
			r.ID, r.StarName, r.Mode, r.TimePeriodYears, r.FinalDistanceLy, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.GetResult(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteResult(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
