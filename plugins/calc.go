package plugins

import (
	"strings"

	"github.com/soudy/mathcat"

	"github.com/plotbird/plotbird"
)

func init() {
	plotbird.RegisterPlugin("calc", newCalcPlugin)
}

func newCalcPlugin(cm *plotbird.CommandMux) {
	cm.Event("calc", calcCallback, &plotbird.HelpInfo{
		Usage:       "<expr>[; <expr>...]",
		Description: "Evaluates numeric expressions. Statements are separated by ';' and may assign variables.",
		Examples:    []string{"calc 2 ** 10", "calc r = 3; 2 * r * 3.14159"},
	})
}

func calcCallback(r *plotbird.Request) {
	var res float64

	mc := mathcat.New()
	for _, expr := range strings.Split(r.Message.Trailing(), ";") {
		if strings.TrimSpace(expr) == "" {
			continue
		}

		var err error
		res, err = mc.Run(expr)
		if err != nil {
			r.MentionReplyf("%s", err)
			return
		}
	}

	r.MentionReplyf("%g", res)
}
