package fun

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2/coding-bot/cmd"
	"github.com/5HT2/coding-bot/plugins"
	"github.com/5HT2/coding-bot/util"
	"golang.org/x/net/html"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
)

const (
	dadJokeUrl    = "https://icanhazdadjoke.com"
	chuckJokeUrl  = "https://api.chucknorris.io/jokes/random"
	geekJokeUrl   = "https://geek-jokes.sameerkumar.website/api?format=json"
	randomJokeUrl = "https://official-joke-api.appspot.com/random_joke"
	xkcdInfoUrl   = "https://xkcd.com/info.0.json"
	xkcdComicUrl  = "https://xkcd.com/%v/"
)

func InitPlugin() *plugins.Plugin {
	return &plugins.Plugin{
		Name:        "Fun",
		Description: "Jokes and comics",
		Version:     "1.0.0",
		Commands: []bot.CommandInfo{{
			Fn:          JokeCommand,
			FnName:      "JokeCommand",
			Name:        "joke",
			Description: "Get a random joke, `joke [dad|chuck|norris|geek]`",
		}, {
			Fn:          XkcdCommand,
			FnName:      "XkcdCommand",
			Name:        "xkcd",
			Description: "Get an xkcd comic, random unless a number is given",
		}},
	}
}

func JokeCommand(c bot.Command) error {
	kind, _ := cmd.ParseStringArg(c.Args, 1, true)

	var url string
	var parse func([]byte) (string, error)

	switch kind {
	case "dad":
		url, parse = dadJokeUrl, parseDadJoke
	case "chuck", "norris":
		url, parse = chuckJokeUrl, parseChuckJoke
	case "geek":
		url, parse = geekJokeUrl, parseGeekJoke
	default:
		url, parse = randomJokeUrl, parseRandomJoke
	}

	b, err := util.RequestJson(url)
	if err != nil {
		return bot.GenericError(c.FnName, "getting joke", err.Error())
	}

	joke, err := parse(b)
	if err != nil {
		return bot.GenericError(c.FnName, "reading joke", err.Error())
	}

	_, err = cmd.SendMessage(c.E, joke)
	return err
}

func parseDadJoke(b []byte) (string, error) {
	var j struct {
		Joke string `json:"joke"`
	}
	if err := json.Unmarshal(b, &j); err != nil {
		return "", err
	}
	return nonEmptyJoke(j.Joke)
}

func parseChuckJoke(b []byte) (string, error) {
	var j struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(b, &j); err != nil {
		return "", err
	}
	return nonEmptyJoke(j.Value)
}

// parseGeekJoke accepts both the json object and the bare quoted string the api has returned over time
func parseGeekJoke(b []byte) (string, error) {
	var j struct {
		Joke string `json:"joke"`
	}
	if err := json.Unmarshal(b, &j); err == nil {
		return nonEmptyJoke(j.Joke)
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", err
	}
	return nonEmptyJoke(s)
}

func parseRandomJoke(b []byte) (string, error) {
	var j struct {
		Setup     string `json:"setup"`
		Punchline string `json:"punchline"`
	}
	if err := json.Unmarshal(b, &j); err != nil {
		return "", err
	}
	return nonEmptyJoke(strings.TrimSpace(j.Setup + "\n" + j.Punchline))
}

func nonEmptyJoke(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return "", bot.GenericError("nonEmptyJoke", "reading joke", "joke was empty")
	}
	return s, nil
}

func XkcdCommand(c bot.Command) error {
	b, err := util.RequestJson(xkcdInfoUrl)
	if err != nil {
		return bot.GenericError(c.FnName, "getting latest comic", err.Error())
	}

	var info struct {
		Num int `json:"num"`
	}
	if err := json.Unmarshal(b, &info); err != nil {
		return err
	}

	arg, _ := cmd.ParseStringArg(c.Args, 1, false)
	num, ok := pickComic(arg, info.Num, rand.Intn)
	if !ok {
		_, _ = cmd.SendMessage(c.E, "I don't know what to do with that. I'll give you a random comic for now. "+
			"If you're unsure of how to use this command, run\n```"+cmd.GuildPrefix(c.E.GuildID)+"help```")
	}

	url := fmt.Sprintf(xkcdComicUrl, num)
	content := url

	page, res, err := util.RequestUrl(url, http.MethodGet)
	if err == nil && res.StatusCode == http.StatusOK {
		if title, err := comicTitle(string(page)); err == nil {
			content = "**" + title + "**\n" + url
		}
	}

	_, err = cmd.SendMessage(c.E, content)
	return err
}

// pickComic clamps arg to [1, latest]. A missing or invalid arg picks a random comic, ok is false only for invalid ones.
func pickComic(arg string, latest int, intn func(int) int) (num int, ok bool) {
	if latest < 1 {
		return 1, len(arg) == 0
	}

	if len(arg) == 0 {
		return intn(latest) + 1, true
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return intn(latest) + 1, false
	}

	switch {
	case n > latest:
		return latest, true
	case n < 1:
		return 1, true
	default:
		return n, true
	}
}

func comicTitle(page string) (string, error) {
	node, err := util.ExtractNode(page, func(n *html.Node) bool {
		return n.Data == "div" && util.NodeAttr(n, "id") == "ctitle"
	})
	if err != nil {
		return "", err
	}

	buf := bytes.Buffer{}
	util.ExtractNodeText(node, &buf)

	title := strings.TrimSpace(buf.String())
	if len(title) == 0 {
		return "", bot.GenericError("comicTitle", "reading comic title", "title was empty")
	}
	return title, nil
}
