package cli

import (
	"strings"

	"ordinance-go/internal/model"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "PDF 업로드",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var compareCmd = &cobra.Command{
	Use:   "compare <query...>",
	Short: "PDF 와 검색된 조례 비교 분석",
	Long: `선택한 PDF 와 검색어에 해당하는 조례를 비교 분석하고 결과 Word 문서를 저장합니다.
API 키를 지정하지 않으면 설정 파일의 keys 값을 사용합니다.

Examples:
  ordinance compare 주차장 --pdf draft.pdf --gemini-key $GEMINI_KEY
  ORDINANCE_KEYS_OPENAI=sk-... ordinance compare 주차장 --pdf draft.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(uploadCmd, compareCmd)

	compareCmd.Flags().String("pdf", "", "PDF file to compare")
	compareCmd.Flags().String("gemini-key", "", "Gemini API key")
	compareCmd.Flags().String("openai-key", "", "OpenAI API key")
}

func runUpload(cmd *cobra.Command, args []string) error {
	file, err := model.LoadAttachment(args[0])
	if err != nil {
		return err
	}
	ctrl := newController()
	return ctrl.Upload(cmd.Context(), file)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctrl := newController()

	gemini, _ := cmd.Flags().GetString("gemini-key")
	openai, _ := cmd.Flags().GetString("openai-key")
	if gemini == "" {
		gemini = cfg.Keys.Gemini
	}
	if openai == "" {
		openai = cfg.Keys.OpenAI
	}
	ctrl.SetQuery(strings.Join(args, " "))
	ctrl.SetAPIKeys(gemini, openai)

	if path, _ := cmd.Flags().GetString("pdf"); path != "" {
		file, err := model.LoadAttachment(path)
		if err != nil {
			return err
		}
		if err := ctrl.SelectFile(file); err != nil {
			return err
		}
	}

	if err := ctrl.Compare(cmd.Context()); err != nil {
		return err
	}
	printer.Success("저장 위치: %s", ctrl.State().LastDownload)
	return nil
}
