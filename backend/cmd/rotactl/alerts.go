package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Hypha-Media-UK/rotatr/backend/internal/rota"
)

var alertsDate string

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "人手告警",
}

var alertsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "为指定日期生成人手告警（幂等）",
	Long: `为人手不足的部门按时段写入告警，重复执行不会重复写入。

示例:
  rotactl alerts generate                    # 今天（staffing.timezone）
  rotactl alerts generate --date 2024-01-02`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()

		date, err := dateFlag(alertsDate, a.cfg.Staffing.Location())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Staffing.AlertRunTimeout())
		defer cancel()

		res, err := a.svc.Staffing.GenerateStaffingAlerts(ctx, date)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s 新建告警 %d 条\n", res.Date, res.AlertsGenerated)
		for _, al := range res.Alerts {
			fmt.Fprintf(out, "  %-10s %-20s %s-%s 需要 %d，可用 %d\n",
				al.AlertType, al.DepartmentName, al.StartTime, al.EndTime, al.RequiredPorters, al.AvailablePorters)
		}
		for _, fe := range res.FetchErrors {
			fmt.Fprintf(out, "  读取失败 %s %s: %s\n", fe.Scope, fe.ID, fe.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsGenerateCmd)
	alertsGenerateCmd.Flags().StringVar(&alertsDate, "date", "", "日期 YYYY-MM-DD，默认今天")
}

// dateFlag 解析 YYYY-MM-DD，空值取 loc 时区的今天
func dateFlag(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return rota.Civil(time.Now().In(loc)), nil
	}
	d, err := rota.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w（应为 YYYY-MM-DD）", err)
	}
	return d, nil
}
