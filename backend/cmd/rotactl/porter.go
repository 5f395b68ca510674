package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

var (
	workingStart string
	workingEnd   string
	workingICS   string
)

var porterCmd = &cobra.Command{
	Use:   "porter",
	Short: "搬运工排班查询",
}

var porterWorkingDaysCmd = &cobra.Command{
	Use:   "working-days <porter-id>",
	Short: "列出区间内的上班日",
	Long: `按班次周期列出搬运工在 [start, end] 内的上班日，可同时导出为 iCalendar。

示例:
  rotactl porter working-days 7d5c8e0a-... --start 2024-01-01 --end 2024-01-14
  rotactl porter working-days 7d5c8e0a-... --start 2024-01-01 --end 2024-03-31 --ics alice.ics`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		start, err := dateFlag(workingStart, a.cfg.Staffing.Location())
		if err != nil {
			return err
		}
		end := rota.AddDays(start, 13)
		if workingEnd != "" {
			if end, err = dateFlag(workingEnd, a.cfg.Staffing.Location()); err != nil {
				return err
			}
		}

		res, err := a.svc.ShiftCalculation.GetWorkingDaysInRange(cmd.Context(), args[0], start, end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s ~ %s 共 %d 个上班日\n", res.StartDate, res.EndDate, res.Count)
		if res.Count > 0 {
			fmt.Fprintln(out, strings.Join(res.WorkingDays, "\n"))
		}

		if workingICS != "" {
			data, _, err := a.svc.Export.ExportWorkingDaysICS(cmd.Context(), args[0], start, end)
			if err != nil {
				return err
			}
			if err := os.WriteFile(workingICS, data, 0o644); err != nil {
				return fmt.Errorf("写入日历文件失败: %w", err)
			}
			fmt.Fprintf(out, "日历已写入 %s\n", workingICS)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(porterCmd)
	porterCmd.AddCommand(porterWorkingDaysCmd)
	f := porterWorkingDaysCmd.Flags()
	f.StringVar(&workingStart, "start", "", "开始日期 YYYY-MM-DD，默认今天")
	f.StringVar(&workingEnd, "end", "", "结束日期 YYYY-MM-DD，默认开始日期起 14 天")
	f.StringVar(&workingICS, "ics", "", "同时导出 iCalendar 到该文件")
}
