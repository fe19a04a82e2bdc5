package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams        = orz.NewError(10400, "参数无效")
	ErrInvalidConfiguration = orz.NewError(10401, "分析配置无效")
	ErrInsufficientHistory  = orz.NewError(10402, "历史数据不足")
	ErrInvalidPriceSeries   = orz.NewError(10403, "价格序列无效")
	ErrUnknownPolicy        = orz.NewError(10404, "未知的策略")
	ErrUnknownSignal        = orz.NewError(10405, "未知的信号")
)
