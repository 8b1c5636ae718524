package plugins

import (
	"github.com/belak/nut"

	"github.com/plotbird/plotbird"
)

func init() {
	plotbird.RegisterPlugin("db", newDBPlugin)
}

type dbConfig struct {
	Filename string
}

// newDBPlugin opens the nut file named in [db]. Without a filename it
// provides a nil *nut.DB and everything built on it is switched off.
func newDBPlugin(b *plotbird.Bot) (*nut.DB, error) {
	dbc := &dbConfig{}
	if b.HasConfig("db") {
		if err := b.Config("db", dbc); err != nil {
			return nil, err
		}
	}

	if dbc.Filename == "" {
		b.GetLogger().Info("No [db] filename, nothing will be stored")
		return nil, nil
	}

	ndb, err := nut.Open(dbc.Filename, 0700)
	if err != nil {
		return nil, err
	}
	b.OnClose(ndb)

	return ndb, nil
}
