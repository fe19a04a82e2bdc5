package ta

import "math"

// Candle K线形态识别所需的价格
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

func (c Candle) body() float64        { return math.Abs(c.Close - c.Open) }
func (c Candle) span() float64        { return c.High - c.Low }
func (c Candle) upperShadow() float64 { return c.High - math.Max(c.Open, c.Close) }
func (c Candle) lowerShadow() float64 { return math.Min(c.Open, c.Close) - c.Low }
func (c Candle) bullish() bool        { return c.Close > c.Open }
func (c Candle) bearish() bool        { return c.Close < c.Open }
func (c Candle) midBody() float64     { return (c.Open + c.Close) / 2 }

func (c Candle) color() float64 {
	if c.bearish() {
		return -1
	}
	return 1
}

// PatternMatch 某根K线上选中的形态，Value 带符号（正为看涨，负为看跌）
type PatternMatch struct {
	Name  string
	Value float64
}

type pattern struct {
	name   string
	bars   int
	detect func(c []Candle, i int) float64
}

const (
	dojiBodyRatio     = 0.1
	smallBodyRatio    = 0.3
	longBodyRatio     = 0.6
	shadowBodyFactor  = 2.0
	contextBars       = 5
	averageBodyPeriod = 10
)

// neutralPatterns 本身不带方向的形态，无论数值符号一律视为中性
var neutralPatterns = map[string]bool{
	"doji":             true,
	"dragonfly_doji":   true,
	"gravestone_doji":  true,
	"long_legged_doji": true,
	"rickshaw_man":     true,
	"spinning_top":     true,
	"inside_bar":       true,
	"short_line":       true,
	"long_line":        true,
}

// IsNeutralPattern 该形态是否不带方向
func IsNeutralPattern(name string) bool {
	return neutralPatterns[name]
}

// 形态库，顺序即同强度时的优先级
var patternLibrary = []pattern{
	{"morning_star", 3, morningStar},
	{"evening_star", 3, eveningStar},
	{"three_white_soldiers", 3, threeWhiteSoldiers},
	{"three_black_crows", 3, threeBlackCrows},
	{"engulfing", 2, engulfing},
	{"piercing", 2, piercing},
	{"dark_cloud_cover", 2, darkCloudCover},
	{"harami", 2, harami},
	{"hammer", contextBars + 1, hammer},
	{"hanging_man", contextBars + 1, hangingMan},
	{"inverted_hammer", contextBars + 1, invertedHammer},
	{"shooting_star", contextBars + 1, shootingStar},
	{"marubozu", 1, marubozu},
	{"dragonfly_doji", 1, dragonflyDoji},
	{"gravestone_doji", 1, gravestoneDoji},
	{"rickshaw_man", 1, rickshawMan},
	{"long_legged_doji", 1, longLeggedDoji},
	{"doji", 1, doji},
	{"spinning_top", 1, spinningTop},
	{"inside_bar", 2, insideBar},
	{"long_line", averageBodyPeriod + 1, longLine},
	{"short_line", averageBodyPeriod + 1, shortLine},
}

// RecognizePatterns 逐根扫描形态库，每根K线保留绝对值最大的形态；没有形态时 Name 为空
func RecognizePatterns(candles []Candle) []PatternMatch {
	out := make([]PatternMatch, len(candles))
	for i := range candles {
		var best PatternMatch
		for _, p := range patternLibrary {
			if i+1 < p.bars {
				continue
			}
			v := p.detect(candles, i)
			if v == 0 {
				continue
			}
			if math.Abs(v) > math.Abs(best.Value) {
				best = PatternMatch{Name: p.name, Value: v}
			}
		}
		out[i] = best
	}
	return out
}

// priorMove 前 contextBars 根K线的收盘价变化，用于区分锤子线/上吊线等
func priorMove(c []Candle, i int) float64 {
	return c[i-1].Close - c[i-contextBars].Close
}

func averageBody(c []Candle, i int) float64 {
	sum := 0.0
	for j := i - averageBodyPeriod; j < i; j++ {
		sum += c[j].body()
	}
	return sum / averageBodyPeriod
}

func isDoji(c Candle) bool {
	if c.span() == 0 {
		return true
	}
	return c.body() <= dojiBodyRatio*c.span()
}

func isLongBody(c Candle) bool {
	return c.span() > 0 && c.body() >= longBodyRatio*c.span()
}

func isSmallBody(c Candle) bool {
	return c.span() > 0 && c.body() <= smallBodyRatio*c.span()
}

func engulfing(c []Candle, i int) float64 {
	prev, cur := c[i-1], c[i]
	if cur.body() <= prev.body() {
		return 0
	}
	switch {
	case prev.bearish() && cur.bullish() && cur.Open <= prev.Close && cur.Close >= prev.Open:
		return 100
	case prev.bullish() && cur.bearish() && cur.Open >= prev.Close && cur.Close <= prev.Open:
		return -100
	}
	return 0
}

func harami(c []Candle, i int) float64 {
	prev, cur := c[i-1], c[i]
	if !isLongBody(prev) || cur.body() >= prev.body() {
		return 0
	}
	top, bottom := math.Max(cur.Open, cur.Close), math.Min(cur.Open, cur.Close)
	inside := top <= math.Max(prev.Open, prev.Close) && bottom >= math.Min(prev.Open, prev.Close)
	switch {
	case inside && prev.bearish() && cur.bullish():
		return 100
	case inside && prev.bullish() && cur.bearish():
		return -100
	}
	return 0
}

func piercing(c []Candle, i int) float64 {
	prev, cur := c[i-1], c[i]
	if isLongBody(prev) && prev.bearish() && cur.bullish() &&
		cur.Open < prev.Low && cur.Close > prev.midBody() && cur.Close < prev.Open {
		return 100
	}
	return 0
}

func darkCloudCover(c []Candle, i int) float64 {
	prev, cur := c[i-1], c[i]
	if isLongBody(prev) && prev.bullish() && cur.bearish() &&
		cur.Open > prev.High && cur.Close < prev.midBody() && cur.Close > prev.Open {
		return -100
	}
	return 0
}

func morningStar(c []Candle, i int) float64 {
	first, star, last := c[i-2], c[i-1], c[i]
	if isLongBody(first) && first.bearish() && isSmallBody(star) &&
		math.Max(star.Open, star.Close) < first.Close &&
		last.bullish() && last.Close > first.midBody() {
		return 100
	}
	return 0
}

func eveningStar(c []Candle, i int) float64 {
	first, star, last := c[i-2], c[i-1], c[i]
	if isLongBody(first) && first.bullish() && isSmallBody(star) &&
		math.Min(star.Open, star.Close) > first.Close &&
		last.bearish() && last.Close < first.midBody() {
		return -100
	}
	return 0
}

func threeWhiteSoldiers(c []Candle, i int) float64 {
	a, b, d := c[i-2], c[i-1], c[i]
	if a.bullish() && b.bullish() && d.bullish() &&
		b.Close > a.Close && d.Close > b.Close &&
		b.Open > a.Open && b.Open < a.Close &&
		d.Open > b.Open && d.Open < b.Close &&
		isLongBody(a) && isLongBody(b) && isLongBody(d) {
		return 100
	}
	return 0
}

func threeBlackCrows(c []Candle, i int) float64 {
	a, b, d := c[i-2], c[i-1], c[i]
	if a.bearish() && b.bearish() && d.bearish() &&
		b.Close < a.Close && d.Close < b.Close &&
		b.Open < a.Open && b.Open > a.Close &&
		d.Open < b.Open && d.Open > b.Close &&
		isLongBody(a) && isLongBody(b) && isLongBody(d) {
		return -100
	}
	return 0
}

// hammerShape 下影线长、实体小且靠上
func hammerShape(cur Candle) bool {
	return cur.span() > 0 && cur.body() > 0 &&
		cur.lowerShadow() >= shadowBodyFactor*cur.body() &&
		cur.upperShadow() <= cur.body()
}

// invertedShape 上影线长、实体小且靠下
func invertedShape(cur Candle) bool {
	return cur.span() > 0 && cur.body() > 0 &&
		cur.upperShadow() >= shadowBodyFactor*cur.body() &&
		cur.lowerShadow() <= cur.body()
}

func hammer(c []Candle, i int) float64 {
	if hammerShape(c[i]) && priorMove(c, i) < 0 {
		return 100
	}
	return 0
}

func hangingMan(c []Candle, i int) float64 {
	if hammerShape(c[i]) && priorMove(c, i) > 0 {
		return -100
	}
	return 0
}

func invertedHammer(c []Candle, i int) float64 {
	if invertedShape(c[i]) && priorMove(c, i) < 0 {
		return 100
	}
	return 0
}

func shootingStar(c []Candle, i int) float64 {
	if invertedShape(c[i]) && priorMove(c, i) > 0 {
		return -100
	}
	return 0
}

func marubozu(c []Candle, i int) float64 {
	cur := c[i]
	if cur.span() > 0 && cur.body() >= 0.95*cur.span() {
		return 100 * cur.color()
	}
	return 0
}

func doji(c []Candle, i int) float64 {
	if isDoji(c[i]) {
		return 100
	}
	return 0
}

func dragonflyDoji(c []Candle, i int) float64 {
	cur := c[i]
	if cur.span() > 0 && isDoji(cur) && cur.upperShadow() <= dojiBodyRatio*cur.span() &&
		cur.lowerShadow() >= 0.6*cur.span() {
		return 100
	}
	return 0
}

func gravestoneDoji(c []Candle, i int) float64 {
	cur := c[i]
	if cur.span() > 0 && isDoji(cur) && cur.lowerShadow() <= dojiBodyRatio*cur.span() &&
		cur.upperShadow() >= 0.6*cur.span() {
		return 100
	}
	return 0
}

func longLeggedDoji(c []Candle, i int) float64 {
	cur := c[i]
	if cur.span() > 0 && isDoji(cur) && cur.upperShadow() >= 0.3*cur.span() &&
		cur.lowerShadow() >= 0.3*cur.span() {
		return 100
	}
	return 0
}

// rickshawMan 长腿十字且实体位于中间
func rickshawMan(c []Candle, i int) float64 {
	cur := c[i]
	if longLeggedDoji(c, i) == 0 {
		return 0
	}
	center := cur.Low + cur.span()/2
	if math.Abs(cur.midBody()-center) <= 0.1*cur.span() {
		return 100
	}
	return 0
}

func spinningTop(c []Candle, i int) float64 {
	cur := c[i]
	if isSmallBody(cur) && !isDoji(cur) && cur.upperShadow() > cur.body() && cur.lowerShadow() > cur.body() {
		return 50 * cur.color()
	}
	return 0
}

func insideBar(c []Candle, i int) float64 {
	prev, cur := c[i-1], c[i]
	if cur.High < prev.High && cur.Low > prev.Low {
		return 50 * cur.color()
	}
	return 0
}

func longLine(c []Candle, i int) float64 {
	cur := c[i]
	avg := averageBody(c, i)
	if avg > 0 && cur.body() > 1.5*avg && isLongBody(cur) {
		return 50 * cur.color()
	}
	return 0
}

func shortLine(c []Candle, i int) float64 {
	cur := c[i]
	avg := averageBody(c, i)
	if avg > 0 && cur.body() > 0 && cur.body() < 0.5*avg && !isDoji(cur) {
		return 50 * cur.color()
	}
	return 0
}
