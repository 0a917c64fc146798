// Package classify derives an event category from its title.
package classify

import "strings"

// Other is the fallback category when no keyword matches.
const Other = "其他"

// Rule pairs a category with the keywords that select it. Rules are
// ordered: the first rule with any keyword appearing in the lowercased
// title wins, so earlier categories take precedence on overlap.
type Rule struct {
	Category string
	Keywords []string
}

// DefaultRules is the built-in category table, most specific first.
func DefaultRules() []Rule {
	return []Rule{
		{"音樂會/演唱會", []string{
			"音樂會", "演唱會", "獨奏會", "合唱", "交響", "管樂", "國樂", "弦樂", "鋼琴", "提琴",
			"巡演", "fan concert", "fancon", "音樂節", "爵士", "演奏", "歌手", "樂團",
			"tour", "live", "concert", "solo", "recital", "電音派對", "藝人見面會",
		}},
		{"音樂劇/歌劇", []string{"音樂劇", "歌劇", "musical", "opera"}},
		{"戲劇表演", []string{
			"戲劇", "舞台劇", "劇團", "劇場", "喜劇", "公演", "掌中戲", "歌仔戲", "豫劇",
			"話劇", "相聲", "布袋戲", "京劇", "崑劇", "藝文活動",
		}},
		{"舞蹈表演", []string{"舞蹈", "舞作", "舞團", "芭蕾", "舞劇", "現代舞", "民族舞", "踢踏舞"}},
		{"展覽/博覽", []string{
			"展覽", "特展", "博物館", "美術館", "藝術展", "畫展", "攝影展", "文物展",
			"科學展", "博覽會", "動漫",
		}},
		{"親子活動", []string{"親子", "兒童", "寶寶", "家庭", "小朋友", "童話", "卡通", "動畫"}},
		{"電影放映", []string{"電影", "影展", "數位修復", "放映", "首映", "紀錄片", "動畫電影"}},
		{"體育賽事", []string{
			"棒球", "籃球", "錦標賽", "運動會", "足球", "羽球", "網球", "馬拉松", "路跑",
			"游泳", "體操", "championship", "遊戲競賽",
		}},
		{"講座/工作坊", []string{
			"工作坊", "課程", "導讀", "沙龍", "講座", "體驗", "研習", "培訓", "論壇",
			"研討會", "座談", "workshop", "職場工作術", "資訊科技",
		}},
		{"娛樂表演", []string{"脫口秀", "魔術", "雜技", "馬戲", "特技", "魔幻", "綜藝", "娛樂", "秀場", "表演秀", "社群活動"}},
		{Other, []string{"旅遊", "美食", "公益"}},
	}
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithRules replaces the built-in category table.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = rules
		}
	}
}

// Classifier maps titles to categories via ordered keyword rules.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier with configuration options.
func New(opts ...Option) *Classifier {
	c := &Classifier{rules: DefaultRules()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize returns the first category whose keyword set matches the
// title case-insensitively, or Other when nothing matches.
func (c *Classifier) Categorize(title string) string {
	if title == "" {
		return Other
	}
	lower := strings.ToLower(title)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return Other
}
