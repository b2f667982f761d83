package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tt := []struct {
		name string
		text string
		want Command
	}{
		{"add", "/add 50", Command{Kind: KindAdd, Raw: "/add 50", Price: 50}},
		{"add decimal", "  /add 91480.75 ", Command{Kind: KindAdd, Raw: "/add 91480.75", Price: 91480.75}},
		{"add with bot suffix", "/add@price_bot 12", Command{Kind: KindAdd, Raw: "/add@price_bot 12", Price: 12}},
		{"add extra tokens", "/add 10 20", Command{Kind: KindAdd, Raw: "/add 10 20", Price: 10}},
		{"add missing", "/add", Command{Kind: KindAdd, Raw: "/add", MissingArg: true}},
		{"add glued", "/add50", Command{Kind: KindAdd, Raw: "/add50", MissingArg: true}},
		{"add text", "/add abc", Command{Kind: KindAdd, Raw: "/add abc", InvalidArg: true}},
		{"add negative", "/add -4", Command{Kind: KindAdd, Raw: "/add -4", InvalidArg: true}},
		{"add zero", "/add 0", Command{Kind: KindAdd, Raw: "/add 0", InvalidArg: true}},
		{"add infinity", "/add Inf", Command{Kind: KindAdd, Raw: "/add Inf", InvalidArg: true}},
		{"add nan", "/add NaN", Command{Kind: KindAdd, Raw: "/add NaN", InvalidArg: true}},
		{"remove", "/remove 50", Command{Kind: KindRemove, Raw: "/remove 50", Price: 50}},
		{"remove missing", "/remove   ", Command{Kind: KindRemove, Raw: "/remove", MissingArg: true}},
		{"list", "/listtargets", Command{Kind: KindList, Raw: "/listtargets"}},
		{"list with argument", "/listtargets now", Command{Kind: KindUnknown, Raw: "/listtargets now"}},
		{"current", "/current", Command{Kind: KindCurrent, Raw: "/current"}},
		{"help", "/help@price_bot", Command{Kind: KindHelp, Raw: "/help@price_bot"}},
		{"unknown command", "/start", Command{Kind: KindUnknown, Raw: "/start"}},
		{"plain text", "hello", Command{Kind: KindUnknown, Raw: "hello"}},
		{"empty", "", Command{Kind: KindUnknown, Raw: ""}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Parse(tc.text))
		})
	}
}
