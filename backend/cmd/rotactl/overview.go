package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	overviewDate string
	overviewOut  string
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "每日人手总览",
}

var overviewExportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出每日人手总览为 Excel",
	Long: `导出白班、夜班、楼层机动与告警四个 Sheet。

示例:
  rotactl overview export --date 2024-01-02
  rotactl overview export --date 2024-01-02 -o /tmp/overview.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		date, err := dateFlag(overviewDate, a.cfg.Staffing.Location())
		if err != nil {
			return err
		}

		buf, filename, err := a.svc.Export.ExportDailyOverview(cmd.Context(), date)
		if err != nil {
			return err
		}

		path := overviewOut
		if path == "" {
			path = filename
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("写入文件失败: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "总览已导出到 %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.AddCommand(overviewExportCmd)
	overviewExportCmd.Flags().StringVar(&overviewDate, "date", "", "日期 YYYY-MM-DD，默认今天")
	overviewExportCmd.Flags().StringVarP(&overviewOut, "output", "o", "", "输出文件，默认使用导出文件名")
}
