package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/m3rciful/quotebot/core/telegram"
	"github.com/m3rciful/quotebot/core/telegram/teletest"

	tele "gopkg.in/telebot.v4"
)

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "no match" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "", deriveErrorCode(nil))
	assert.Equal(t, "NO_MATCH", deriveErrorCode(fmt.Errorf("wrap: %w", codedErr{})))
	assert.Equal(t, "PLAINERR", deriveErrorCode(&plainErr{}))
}

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "random_by_author", normalizeHandlerName("/Random By_Author"))
	assert.Equal(t, "unknown", normalizeHandlerName("  "))
}

func TestCallbackRoute(t *testing.T) {
	reg := tg.NewRegistry()
	var got string
	require.NoError(t, reg.RegisterCallback("random", func(c tele.Context) error {
		got = c.Callback().Unique
		return c.Send("quote")
	}))
	route := CallbackRoute(reg)
	assert.Equal(t, tele.OnCallback, route.Endpoint)

	c := teletest.NewCallback(1, 10, 20, "random")
	require.NoError(t, route.Handler(c))
	assert.Equal(t, "random", got)
	assert.Equal(t, 1, c.Responded())
	assert.Equal(t, []string{"quote"}, c.Texts())

	missing := teletest.NewCallback(2, 10, 20, "nope")
	require.NoError(t, route.Handler(missing))
	assert.Equal(t, 1, missing.Responded())
	assert.Empty(t, missing.Texts())
}

func TestCommandRoutesWrapErrors(t *testing.T) {
	reg := tg.NewRegistry()
	boom := errors.New("boom")
	require.NoError(t, reg.RegisterCommand("/start", tg.Command{Handler: func(tele.Context) error { return boom }, Description: "Start"}))
	require.NoError(t, reg.RegisterCommand("/menu", tg.Command{Handler: func(c tele.Context) error { return c.Send("menu") }, Description: "Menu"}))

	routes := CommandRoutes(reg)
	require.Len(t, routes, 2)
	assert.Equal(t, "/menu", routes[0].Endpoint)
	assert.Equal(t, "/start", routes[1].Endpoint)

	assert.ErrorIs(t, routes[1].Handler(teletest.NewMessage(3, 10, 20, "/start")), boom)

	c := teletest.NewMessage(4, 10, 20, "/menu")
	require.NoError(t, routes[0].Handler(c))
	assert.Equal(t, []string{"menu"}, c.Texts())
}

func TestTextRoutes(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCommand("/help", tg.Command{Handler: func(c tele.Context) error { return c.Send("help") }, Description: "Help"}))

	var fallback []string
	routes := TextRoutes(reg, TextOptions{OnText: func(c tele.Context) error {
		fallback = append(fallback, c.Text())
		return nil
	}})
	require.Len(t, routes, 1)
	h := routes[0].Handler

	mention := teletest.NewMessage(5, 10, 20, "/help@quotebot")
	require.NoError(t, h(mention))
	assert.Equal(t, []string{"help"}, mention.Texts())

	require.NoError(t, h(teletest.NewMessage(6, 10, 20, "Albert Einstein")))
	require.NoError(t, h(teletest.NewMessage(7, 10, 20, "/unknown")))
	assert.Equal(t, []string{"Albert Einstein", "/unknown"}, fallback)

	noFallback := TextRoutes(nil, TextOptions{})[0].Handler
	assert.NoError(t, noFallback(teletest.NewMessage(8, 10, 20, "hi")))
}
