package notesock_test

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesock/notesock-go/pkg/catalog"
	"github.com/notesock/notesock-go/pkg/config"
	"github.com/notesock/notesock-go/pkg/match"
	"github.com/notesock/notesock-go/pkg/output/outputtest"
	"github.com/notesock/notesock-go/pkg/service"
	"github.com/notesock/notesock-go/pkg/transport"
)

// mojibake returns s as it appears after its UTF-8 bytes were wrongly
// decoded as Latin-1.
func mojibake(s string) string {
	runes := make([]rune, 0, len(s))
	for _, b := range []byte(s) {
		runes = append(runes, rune(b))
	}
	return string(runes)
}

func TestResolveLiteralFilter(t *testing.T) {
	driver := &outputtest.Driver{Names: []string{"Loop A", "Loop B"}}

	recs, err := catalog.List(driver)
	require.NoError(t, err)

	sel, err := match.Resolve(recs, match.Filter{}, match.Literal("Loop A"))
	require.NoError(t, err)
	assert.Equal(t, "Loop A", sel.Original)
	assert.Equal(t, "Loop A", sel.Display)
}

func TestResolveHealedDisplayOpensRawName(t *testing.T) {
	raw := mojibake("打楽器") + " Port"
	driver := &outputtest.Driver{Names: []string{raw, "Loop B"}}

	recs, err := catalog.List(driver)
	require.NoError(t, err)

	sel, err := match.Resolve(recs, match.Filter{}, match.Literal("打楽器 Port"))
	require.NoError(t, err)

	// The healed name is for humans; the raw name opens the port.
	assert.Equal(t, "打楽器 Port", sel.Display)
	assert.Equal(t, raw, sel.Original)

	_, err = driver.Open(sel.Original)
	require.NoError(t, err)
}

func TestResolveAmbiguousRegex(t *testing.T) {
	driver := &outputtest.Driver{Names: []string{"Loop A", "Loop B", "Other"}}

	recs, err := catalog.List(driver)
	require.NoError(t, err)

	rx, err := match.Regex("^Loop")
	require.NoError(t, err)

	_, err = match.Resolve(recs, match.Filter{}, rx)
	require.ErrorIs(t, err, match.ErrAmbiguous)

	var resErr *match.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.ElementsMatch(t, []string{"Loop A", "Loop B"}, resErr.Matched)
	assert.Len(t, resErr.All, 3)
}

func TestConfigToNotePulse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
midi:
  channel: 3
  port:
    name: Loop A
`))
	require.NoError(t, err)

	driver := &outputtest.Driver{Names: []string{"Loop A", "Loop B"}}
	svc, err := service.New(service.Config{
		SocketPath:     filepath.Join(t.TempDir(), "notesock.sock"),
		Channel:        cfg.Channel,
		DeviceFilter:   cfg.Device,
		PortFilter:     cfg.Port,
		ReceiveTimeout: 100 * time.Millisecond,
		Hold:           time.Millisecond,
		Driver:         driver,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Start())
	defer func() { _ = svc.Stop() }()

	_, err = transport.SendToken(svc.SocketPath(), "C#4")
	require.NoError(t, err)

	require.Len(t, driver.Opened, 1)
	sent := driver.Opened[0].Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, []byte{0x92, 61, 127}, sent[0], "Note On, channel 3")
	assert.Equal(t, []byte{0x82, 61, 0}, sent[1], "Note Off, channel 3")
}

func TestSecondInstanceDetectsFirst(t *testing.T) {
	driver := &outputtest.Driver{Names: []string{"Loop A"}}
	socketPath := filepath.Join(t.TempDir(), "notesock.sock")

	svc, err := service.New(service.Config{
		SocketPath:     socketPath,
		Channel:        1,
		PortFilter:     match.Literal("Loop A"),
		ReceiveTimeout: 100 * time.Millisecond,
		Hold:           time.Millisecond,
		Driver:         driver,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Start())

	// A second instance probes the endpoint and backs off without
	// touching it.
	assert.ErrorIs(t, transport.Probe(socketPath), transport.ErrAlreadyRunning)

	require.NoError(t, svc.Stop())

	// With the first instance gone, the endpoint is free again.
	assert.NoError(t, transport.Probe(socketPath))
}

func TestSilentConnectionDoesNotBlockNext(t *testing.T) {
	driver := &outputtest.Driver{Names: []string{"Loop A"}}
	svc, err := service.New(service.Config{
		SocketPath:     filepath.Join(t.TempDir(), "notesock.sock"),
		Channel:        1,
		PortFilter:     match.Literal("Loop A"),
		ReceiveTimeout: 50 * time.Millisecond,
		Hold:           time.Millisecond,
		Driver:         driver,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	defer func() { _ = svc.Stop() }()

	// A connection that never sends is dropped at the receive deadline.
	conn, err := dialSocket(svc.SocketPath())
	require.NoError(t, err)
	defer conn.Close()

	// A well-formed connection afterward is still served.
	_, err = transport.SendToken(svc.SocketPath(), "C4")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(driver.Opened[0].Sent()) == 2
	}, time.Second, 10*time.Millisecond)
}

func dialSocket(path string) (net.Conn, error) {
	return net.DialTimeout("unix", path, 500*time.Millisecond)
}
