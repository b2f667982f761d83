package notification

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/raykavin/pricewatch/pkg/command"
	"github.com/raykavin/pricewatch/pkg/core"
	zlog "github.com/raykavin/pricewatch/pkg/logger/zerolog"
	"github.com/raykavin/pricewatch/pkg/storage"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/tucnak/telebot.v2"
)

const operatorChat int64 = 4242

type sent struct {
	to      string
	text    string
	options []interface{}
}

type fakeSender struct {
	messages []sent
	err      error
}

func (f *fakeSender) Send(to tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error) {
	f.messages = append(f.messages, sent{to: to.Recipient(), text: what.(string), options: options})
	return &tb.Message{}, f.err
}

func newTelegram(t *testing.T) (*Telegram, *fakeSender, *storage.BuntStorage) {
	t.Helper()

	store, err := storage.FromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	fake := &fakeSender{}
	log := zlog.NewNop()

	return &Telegram{
		settings: core.TelegramSettings{ChatID: operatorChat},
		router:   command.NewRouter(store, log),
		sender:   fake,
		chat:     &tb.Chat{ID: operatorChat},
		log:      log,
	}, fake, store
}

func TestTelegram_Authorize(t *testing.T) {
	telegram, _, _ := newTelegram(t)

	require.True(t, telegram.authorize(&tb.Update{Message: &tb.Message{Chat: &tb.Chat{ID: operatorChat}}}))
	require.False(t, telegram.authorize(&tb.Update{Message: &tb.Message{Chat: &tb.Chat{ID: 1}}}))
	require.False(t, telegram.authorize(&tb.Update{Message: &tb.Message{}}))
	require.False(t, telegram.authorize(&tb.Update{}))
}

func TestTelegram_OnText(t *testing.T) {
	telegram, fake, store := newTelegram(t)

	telegram.onText(&tb.Message{Text: "/add 50", Chat: &tb.Chat{ID: operatorChat}})

	require.Len(t, fake.messages, 1)
	require.Equal(t, "4242", fake.messages[0].to)
	require.Equal(t, "Added target: 50", fake.messages[0].text)
	require.Contains(t, fake.messages[0].options, tb.Silent)

	targets, err := store.Targets()
	require.NoError(t, err)
	require.Equal(t, []float64{50}, targets)
}

func TestTelegram_NotifyAndAlert(t *testing.T) {
	telegram, fake, _ := newTelegram(t)

	telegram.Notify("[INFO] started")
	telegram.Alert("[ALERT] hit")

	require.Len(t, fake.messages, 2)
	require.Contains(t, fake.messages[0].options, tb.Silent)
	require.NotContains(t, fake.messages[1].options, tb.Silent)
}

func TestTelegram_SendFailureIsSwallowed(t *testing.T) {
	telegram, fake, _ := newTelegram(t)
	fake.err = errors.New("network down")

	require.NotPanics(t, func() {
		telegram.Alert("[ALERT] hit")
	})
	require.Len(t, fake.messages, 1)
}

func TestMail_Send(t *testing.T) {
	var (
		gotAddr string
		gotMsg  string
	)

	mail := NewMail(MailParams{
		SMTPServerPort:    587,
		SMTPServerAddress: "smtp.example.com",
		To:                "operator@example.com",
		From:              "bot@example.com",
	}, zlog.NewNop())
	mail.sendMail = func(addr string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotAddr, gotMsg = addr, string(msg)
		return nil
	}

	mail.Alert("[ALERT] Silver hit")
	require.Equal(t, "smtp.example.com:587", gotAddr)
	require.Contains(t, gotMsg, "Subject: pricewatch: ALERT\r\n")
	require.Contains(t, gotMsg, "X-Priority: 1\r\n")
	require.Contains(t, gotMsg, "[ALERT] Silver hit")

	mail.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("relay denied")
	}
	require.NotPanics(t, func() { mail.Notify("[INFO] started") })
}

type recorder struct {
	notes, alerts []string
}

func (r *recorder) Notify(text string) { r.notes = append(r.notes, text) }
func (r *recorder) Alert(text string)  { r.alerts = append(r.alerts, text) }

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	multi := Multi{a, b}

	multi.Notify("info")
	multi.Alert("alert")

	for _, r := range []*recorder{a, b} {
		require.Equal(t, []string{"info"}, r.notes)
		require.Equal(t, []string{"alert"}, r.alerts)
	}
}
