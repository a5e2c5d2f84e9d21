package bots

import (
	"github.com/sglre6355/multibot/internal/bot"
	"github.com/sglre6355/multibot/internal/command"
	"github.com/sglre6355/multibot/internal/commands/gallery"
	"github.com/sglre6355/multibot/internal/commands/imdb"
	"github.com/sglre6355/multibot/internal/commands/ping"
)

// TCHJRName is the bot's name, used for its config directory and token.
const TCHJRName = "TCHJR"

// TCHJR builds the TCHJR bot: cinephile, gnomeo, random-imdb and ping.
func TCHJR(env Env) (*bot.Bot, error) {
	galleryOpts := gallery.Options{
		Bot:          TCHJRName,
		ConfigRoot:   env.ConfigRoot,
		ResourcesDir: env.ResourcesDir,
		Rand:         env.Rand,
		Logger:       env.Logger,
		Debounce:     env.Debounce,
	}

	return assemble(TCHJRName, env.Logger,
		func() (command.Command, error) { return gallery.Cinephile(galleryOpts) },
		func() (command.Command, error) { return gallery.Gnomeo(galleryOpts) },
		func() (command.Command, error) {
			return imdb.New(imdb.Options{
				Bot:          TCHJRName,
				ConfigRoot:   env.ConfigRoot,
				ResourcesDir: env.ResourcesDir,
				Client:       env.Client,
				Rand:         env.Rand,
				Logger:       env.Logger,
				Debounce:     env.Debounce,
			})
		},
		func() (command.Command, error) {
			return ping.New(ping.Options{
				Bot:        TCHJRName,
				ConfigRoot: env.ConfigRoot,
				Logger:     env.Logger,
				Debounce:   env.Debounce,
			})
		},
	)
}
