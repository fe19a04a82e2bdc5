package main

import (
	"log"
	"os"

	"github.com/TRouxel/TradingDashboard/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var opts internal.Options

var rootCmd = &cobra.Command{
	Use:           "dashboard",
	Short:         "TradingDashboard - 技术指标信号评分与回测",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "计算指标并给出最新交易日的建议",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *internal.DashboardApp) error {
			return app.Analyze(cmd.Context())
		})
	},
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "回测各单指标信号的准确率与累计得分",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *internal.DashboardApp) error {
			return app.Backtest(cmd.Context())
		})
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "按平均准确率排列组合信号",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *internal.DashboardApp) error {
			return app.Rank(cmd.Context())
		})
	},
}

var simulateCmd = &cobra.Command{
	Use:       "simulate [hold_and_rebuy|buy_on_divergence]",
	Short:     "模拟背离交易策略",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"hold_and_rebuy", "buy_on_divergence"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *internal.DashboardApp) error {
			return app.Simulate(cmd.Context(), args[0])
		})
	},
}

func withApp(fn func(app *internal.DashboardApp) error) error {
	app, err := internal.NewDashboardApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func init() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", os.Getenv("DASHBOARD_CONFIG"), "配置文件路径，为空时使用默认参数")
	flags.StringVarP(&opts.PricesPath, "prices", "p", "", "OHLCV CSV 文件路径")
	flags.StringVar(&opts.DBPath, "db", os.Getenv("DASHBOARD_DB"), "sqlite 文件路径，设置后保存每日快照")
	flags.StringVarP(&opts.Ticker, "ticker", "t", "", "标的代码，默认取价格文件名")
	flags.BoolVar(&opts.JSON, "json", false, "以 JSON 输出结果")
	opts.Out = os.Stdout

	rootCmd.AddCommand(analyzeCmd, backtestCmd, rankCmd, simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
