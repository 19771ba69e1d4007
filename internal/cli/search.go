package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "조례 검색",
	Long: `검색어로 조례를 검색하고 결과를 표로 출력합니다.

Examples:
  ordinance search 주차장            # 요약 표
  ordinance search 주차장 --full     # 조문 전체 출력
  ordinance search 주차장 --html     # 결과 패널 HTML 출력`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var saveCmd = &cobra.Command{
	Use:   "save <query...>",
	Short: "검색 결과를 Word 문서로 저장",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSave,
}

func init() {
	rootCmd.AddCommand(searchCmd, saveCmd)

	searchCmd.Flags().Bool("full", false, "print every article of each result")
	searchCmd.Flags().Bool("html", false, "print the rendered result panel HTML")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctrl := newController()

	ctrl.SetQuery(strings.Join(args, " "))
	if err := ctrl.Search(cmd.Context()); err != nil {
		return err
	}

	st := ctrl.State()
	if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
		fmt.Fprintln(printer.Out(), st.ResultHTML)
		return nil
	}
	full, _ := cmd.Flags().GetBool("full")
	return printer.Results(st.Results, full)
}

func runSave(cmd *cobra.Command, args []string) error {
	ctrl := newController()

	ctrl.SetQuery(strings.Join(args, " "))
	if err := ctrl.Save(cmd.Context()); err != nil {
		return err
	}
	printer.Success("저장 위치: %s", ctrl.State().LastDownload)
	return nil
}
