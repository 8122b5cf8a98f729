package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rodrigorfk/teleport/conn"
	"github.com/rodrigorfk/teleport/packet"
	"github.com/rodrigorfk/teleport/sharedir"
	"github.com/stretchr/testify/require"
)

// fakeChannel stands in for the transport: it records sent frames and
// lets tests drive the delegate by hand.
type fakeChannel struct {
	dlgt conn.Delegate
	sent chan []byte

	ready     bool
	readyMtx  sync.RWMutex
	closeOnce *sync.Once
	closes    int
}

func newFakeChannel(dlgt conn.Delegate, ready bool) *fakeChannel {
	return &fakeChannel{
		dlgt:      dlgt,
		sent:      make(chan []byte, 16),
		ready:     ready,
		closeOnce: new(sync.Once),
	}
}

func (fc *fakeChannel) Ready() bool {
	fc.readyMtx.RLock()
	defer fc.readyMtx.RUnlock()
	return fc.ready
}

func (fc *fakeChannel) Send(frame []byte) error {
	fc.readyMtx.RLock()
	defer fc.readyMtx.RUnlock()
	if !fc.ready {
		return io.EOF
	}
	fc.sent <- frame
	return nil
}

func (fc *fakeChannel) Close() {
	fc.closeOnce.Do(func() {
		fc.readyMtx.Lock()
		fc.ready = false
		fc.closes++
		fc.readyMtx.Unlock()
		fc.dlgt.ChannelClosed()
	})
}

func (fc *fakeChannel) closeCount() int {
	fc.readyMtx.RLock()
	defer fc.readyMtx.RUnlock()
	return fc.closes
}

type fakeProvider struct {
	name string
	info func(path string) (*sharedir.Entry, error)
	read func(path string, offset uint64, length uint32) ([]byte, error)
	list func(path string) ([]*sharedir.Entry, error)
}

func (fp *fakeProvider) Name() string { return fp.name }

func (fp *fakeProvider) Info(ctx context.Context, path string) (*sharedir.Entry, error) {
	return fp.info(path)
}

func (fp *fakeProvider) Read(ctx context.Context, path string, offset uint64, length uint32) ([]byte, error) {
	return fp.read(path, offset, length)
}

func (fp *fakeProvider) List(ctx context.Context, path string) ([]*sharedir.Entry, error) {
	return fp.list(path)
}

func (fp *fakeProvider) Write(ctx context.Context, path string, offset uint64, data []byte) (uint32, error) {
	return 0, errors.New("not implemented")
}

type recordedEvents struct {
	fatals     chan error
	closes     chan struct{}
	challenges chan string
}

func getSessionPair(t *testing.T, ready bool) (*Session, *fakeChannel, *recordedEvents) {
	t.Helper()
	var fc *fakeChannel
	sn, err := NewSession(nil,
		OptionSessionChannelFactory(func(dlgt conn.Delegate) (conn.Channel, error) {
			fc = newFakeChannel(dlgt, ready)
			return fc, nil
		}))
	require.NoError(t, err)

	rec := &recordedEvents{
		fatals:     make(chan error, 16),
		closes:     make(chan struct{}, 16),
		challenges: make(chan string, 16),
	}
	sn.OnFatal(func(err error) { rec.fatals <- err })
	sn.OnClose(func() { rec.closes <- struct{}{} })
	sn.OnMFAChallenge(func(challenge string) { rec.challenges <- challenge })

	require.NoError(t, sn.Connect())
	return sn, fc, rec
}

func openSessionPair(t *testing.T) (*Session, *fakeChannel, *recordedEvents) {
	t.Helper()
	sn, fc, rec := getSessionPair(t, true)
	fc.dlgt.ChannelOpened()
	require.Equal(t, OPENED, sn.State())
	return sn, fc, rec
}

func waitFrame(t *testing.T, fc *fakeChannel) []byte {
	t.Helper()
	select {
	case frame := <-fc.sent:
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame sent")
		return nil
	}
}

func noFrame(t *testing.T, fc *fakeChannel) {
	t.Helper()
	select {
	case frame := <-fc.sent:
		typ, _ := packet.Sniff(frame)
		t.Fatalf("unexpected frame sent, type: %s", typ.String())
	case <-time.After(50 * time.Millisecond):
	}
}

func noFatal(t *testing.T, rec *recordedEvents) {
	t.Helper()
	select {
	case err := <-rec.fatals:
		t.Fatalf("unexpected fatal event: %s", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func waitFatal(t *testing.T, rec *recordedEvents) error {
	t.Helper()
	select {
	case err := <-rec.fatals:
		return err
	case <-time.After(time.Second):
		t.Fatal("no fatal event")
		return nil
	}
}

func frameOf(t *testing.T, pkt packet.Packet) []byte {
	t.Helper()
	frame, err := pkt.Encode()
	require.NoError(t, err)
	return frame
}

func TestDispatchUnknownTypeDropped(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	fc.dlgt.ChannelFrame([]byte{0xF0, 0x00, 0x00, 0x00, 0x00})

	noFatal(t, rec)
	noFrame(t, fc)
	require.Equal(t, OPENED, sn.State())
}

func TestDispatchUnsupportedInboundEchoDropped(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	fc.dlgt.ChannelFrame(frameOf(t, &packet.PointerMovePacket{X: 3, Y: 4}))
	fc.dlgt.ChannelFrame(frameOf(t, &packet.ScreenSpecPacket{Width: 800, Height: 600}))

	noFatal(t, rec)
	noFrame(t, fc)
}

func TestDecodeErrorIsFatal(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	// valid clipboard type, truncated payload
	fc.dlgt.ChannelFrame([]byte{byte(packet.TypeClipboard), 0x00, 0x00, 0x00, 0x04})

	waitFatal(t, rec)
	require.Equal(t, CLOSED, sn.State())
}

func TestInfoRequestNotFound(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{
		name: "share",
		info: func(path string) (*sharedir.Entry, error) {
			return nil, sharedir.ErrDoesNotExist
		},
	}
	sn.addShare(1, provider)

	req := &packet.DirInfoRequestPacket{CompletionID: 21, DirectoryID: 1, Path: "missing/file"}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	frame := waitFrame(t, fc)
	rsp := &packet.DirInfoResponsePacket{}
	require.NoError(t, rsp.Decode(frame))
	require.Equal(t, req.CompletionID, rsp.CompletionID)
	require.Equal(t, packet.ErrCodeDoesNotExist, rsp.ErrCode)
	require.Equal(t, req.Path, rsp.Entry.Path)
	require.Equal(t, packet.EntryFile, rsp.Entry.Kind)
	require.Zero(t, rsp.Entry.Size)
	require.Zero(t, rsp.Entry.LastModified)
	noFatal(t, rec)
	require.Equal(t, OPENED, sn.State())
}

func TestInfoRequestSuccess(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	modTime := time.Unix(1700000000, 0)
	provider := &fakeProvider{
		name: "share",
		info: func(path string) (*sharedir.Entry, error) {
			return &sharedir.Entry{Path: path, IsDir: true, Size: 4096, ModTime: modTime}, nil
		},
	}
	sn.addShare(1, provider)

	req := &packet.DirInfoRequestPacket{CompletionID: 22, DirectoryID: 1, Path: "docs"}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	frame := waitFrame(t, fc)
	rsp := &packet.DirInfoResponsePacket{}
	require.NoError(t, rsp.Decode(frame))
	require.Equal(t, req.CompletionID, rsp.CompletionID)
	require.Equal(t, packet.ErrCodeNone, rsp.ErrCode)
	require.Equal(t, "docs", rsp.Entry.Path)
	require.Equal(t, packet.EntryDir, rsp.Entry.Kind)
	require.Equal(t, uint64(4096), rsp.Entry.Size)
	require.Equal(t, uint64(modTime.Unix()), rsp.Entry.LastModified)
	noFatal(t, rec)
}

func TestReadRequestProviderFailure(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{
		name: "share",
		read: func(path string, offset uint64, length uint32) ([]byte, error) {
			return nil, errors.New("disk on fire")
		},
	}
	sn.addShare(1, provider)

	req := &packet.DirReadRequestPacket{CompletionID: 8, DirectoryID: 1, Path: "f", Offset: 0, Length: 64}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	err := waitFatal(t, rec)
	require.Contains(t, err.Error(), "disk on fire")
	noFrame(t, fc)
	require.Equal(t, CLOSED, sn.State())
}

func TestReadRequestNotFoundIsFatal(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{
		name: "share",
		read: func(path string, offset uint64, length uint32) ([]byte, error) {
			return nil, sharedir.ErrDoesNotExist
		},
	}
	sn.addShare(1, provider)

	req := &packet.DirReadRequestPacket{CompletionID: 9, DirectoryID: 1, Path: "missing"}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	waitFatal(t, rec)
	noFrame(t, fc)
}

func TestReadRequestSuccess(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{
		name: "share",
		read: func(path string, offset uint64, length uint32) ([]byte, error) {
			require.Equal(t, uint64(16), offset)
			require.Equal(t, uint32(4), length)
			return []byte("data"), nil
		},
	}
	sn.addShare(1, provider)

	req := &packet.DirReadRequestPacket{CompletionID: 10, DirectoryID: 1, Path: "f", Offset: 16, Length: 4}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	frame := waitFrame(t, fc)
	rsp := &packet.DirReadResponsePacket{}
	require.NoError(t, rsp.Decode(frame))
	require.Equal(t, req.CompletionID, rsp.CompletionID)
	require.Equal(t, packet.ErrCodeNone, rsp.ErrCode)
	require.Equal(t, []byte("data"), rsp.Data)
	noFatal(t, rec)
}

func TestReadRequestLengthCapped(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{
		name: "share",
		read: func(path string, offset uint64, length uint32) ([]byte, error) {
			// the peer-claimed 4GiB must never reach the provider
			require.LessOrEqual(t, length, uint32(packet.MaxReadDataLen))
			return []byte("capped"), nil
		},
	}
	sn.addShare(1, provider)

	req := &packet.DirReadRequestPacket{CompletionID: 11, DirectoryID: 1, Path: "f", Offset: 0, Length: 0xFFFFFFFF}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	frame := waitFrame(t, fc)
	rsp := &packet.DirReadResponsePacket{}
	require.NoError(t, rsp.Decode(frame))
	require.Equal(t, req.CompletionID, rsp.CompletionID)
	require.Equal(t, []byte("capped"), rsp.Data)
	noFatal(t, rec)
	require.Equal(t, OPENED, sn.State())
}

func TestListRequestsCompleteOutOfOrder(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	release := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	provider := &fakeProvider{
		name: "share",
		list: func(path string) ([]*sharedir.Entry, error) {
			<-release[path]
			return []*sharedir.Entry{{Path: path, IsDir: false, Size: 1}}, nil
		},
	}
	sn.addShare(1, provider)

	fc.dlgt.ChannelFrame(frameOf(t, &packet.DirListRequestPacket{
		CompletionID: 5, DirectoryID: 1, Path: "first"}))
	fc.dlgt.ChannelFrame(frameOf(t, &packet.DirListRequestPacket{
		CompletionID: 7, DirectoryID: 1, Path: "second"}))

	// resolve the second request first; responses follow completion
	// order, not arrival order
	close(release["second"])
	frame := waitFrame(t, fc)
	rsp := &packet.DirListResponsePacket{}
	require.NoError(t, rsp.Decode(frame))
	require.Equal(t, uint32(7), rsp.CompletionID)
	require.Equal(t, "second", rsp.Entries[0].Path)

	close(release["first"])
	frame = waitFrame(t, fc)
	rsp = &packet.DirListResponsePacket{}
	require.NoError(t, rsp.Decode(frame))
	require.Equal(t, uint32(5), rsp.CompletionID)
	require.Equal(t, "first", rsp.Entries[0].Path)

	noFatal(t, rec)
}

func TestWriteRequestLoggedNotAnswered(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{name: "share"}
	sn.addShare(1, provider)

	req := &packet.DirWriteRequestPacket{
		CompletionID: 3, DirectoryID: 1, Offset: 0, Path: "f", Data: []byte("abc")}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	noFrame(t, fc)
	noFatal(t, rec)
	require.Equal(t, OPENED, sn.State())
}

func TestRequestForUnknownDirectoryIsFatal(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	req := &packet.DirInfoRequestPacket{CompletionID: 1, DirectoryID: 9, Path: "x"}
	fc.dlgt.ChannelFrame(frameOf(t, req))

	waitFatal(t, rec)
	noFrame(t, fc)
}

func TestSendWhileNotOpen(t *testing.T) {
	sn, fc, rec := getSessionPair(t, false)
	defer sn.Shutdown()

	// must not panic, must not transmit; exactly one fatal event
	sn.SendUsername("alice")

	err := waitFatal(t, rec)
	require.ErrorIs(t, err, ErrTransportUnavailable)
	noFatal(t, rec)
	require.Empty(t, fc.sent)
	require.Equal(t, CLOSED, sn.State())
}

func TestKeyboardUnknownCodeSendsNothing(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	sn.SendKeyboardButton("NoSuchKey", true)
	noFrame(t, fc)
	noFatal(t, rec)

	sn.SendKeyboardButton("KeyA", true)
	frame := waitFrame(t, fc)
	typ, err := packet.Sniff(frame)
	require.NoError(t, err)
	require.Equal(t, packet.TypeKeyboard, typ)
}

func TestMFAChallengeEmitted(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	fc.dlgt.ChannelFrame(frameOf(t, &packet.MFAPacket{
		MFAType: packet.MFATypeWebauthn, JSON: `{"challenge":"abc"}`}))

	select {
	case challenge := <-rec.challenges:
		require.Equal(t, `{"challenge":"abc"}`, challenge)
	case <-time.After(time.Second):
		t.Fatal("no challenge event")
	}
	noFatal(t, rec)
}

func TestLegacyMFAIsFatal(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	fc.dlgt.ChannelFrame(frameOf(t, &packet.MFAPacket{
		MFAType: packet.MFATypeU2F, JSON: `{}`}))

	err := waitFatal(t, rec)
	require.Contains(t, err.Error(), "WebAuthn")
	require.Empty(t, rec.challenges)
	require.Equal(t, 1, fc.closeCount())
	require.Equal(t, CLOSED, sn.State())
}

func TestPeerErrorIsFatal(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	fc.dlgt.ChannelFrame(frameOf(t, &packet.ErrorPacket{Message: "session denied"}))

	err := waitFatal(t, rec)
	require.Contains(t, err.Error(), "session denied")
}

func TestShutdownTwice(t *testing.T) {
	sn, fc, rec := openSessionPair(t)

	sn.Shutdown()
	sn.Shutdown()

	require.Equal(t, 1, fc.closeCount())
	require.Equal(t, CLOSED, sn.State())
	// subscribers were removed before the close reached the channel
	require.Empty(t, rec.closes)
}

func TestPeerCloseEmitsClosedOnce(t *testing.T) {
	sn, fc, rec := openSessionPair(t)

	fc.Close()

	select {
	case <-rec.closes:
	case <-time.After(time.Second):
		t.Fatal("no close event")
	}
	require.Equal(t, CLOSED, sn.State())

	// teardown already happened; a late Shutdown is a no-op
	sn.Shutdown()
	require.Equal(t, 1, fc.closeCount())
	select {
	case <-rec.closes:
		t.Fatal("duplicate close event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAnnounceAcknowledged(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{name: "share"}
	type result struct {
		directoryID uint32
		err         error
	}
	done := make(chan result, 1)
	go func() {
		directoryID, err := sn.AnnounceDirectory(provider)
		done <- result{directoryID, err}
	}()

	frame := waitFrame(t, fc)
	announce := &packet.DirAnnouncePacket{}
	require.NoError(t, announce.Decode(frame))
	require.Equal(t, "share", announce.Name)

	fc.dlgt.ChannelFrame(frameOf(t, &packet.DirAcknowledgePacket{
		ErrCode: packet.ErrCodeNone, DirectoryID: announce.DirectoryID}))

	select {
	case res := <-done:
		require.NoError(t, res.err)
		require.Equal(t, announce.DirectoryID, res.directoryID)
	case <-time.After(time.Second):
		t.Fatal("announce did not complete")
	}
	noFatal(t, rec)
}

func TestAnnounceRejected(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	provider := &fakeProvider{name: "share"}
	done := make(chan error, 1)
	go func() {
		_, err := sn.AnnounceDirectory(provider)
		done <- err
	}()

	frame := waitFrame(t, fc)
	announce := &packet.DirAnnouncePacket{}
	require.NoError(t, announce.Decode(frame))

	fc.dlgt.ChannelFrame(frameOf(t, &packet.DirAcknowledgePacket{
		ErrCode: packet.ErrCodeFailed, DirectoryID: announce.DirectoryID}))

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("announce did not complete")
	}
	// a rejected share is terminal for the session
	waitFatal(t, rec)
}

func TestScreenFrameEmitted(t *testing.T) {
	sn, fc, rec := openSessionPair(t)
	defer sn.Shutdown()

	frames := make(chan *packet.ScreenFramePacket, 1)
	sn.OnScreenFrame(func(pkt *packet.ScreenFramePacket) { frames <- pkt })

	bitmap := []byte{0x01, 0x02, 0x03}
	fc.dlgt.ChannelFrame(frameOf(t, &packet.ScreenFramePacket{
		Left: 1, Top: 2, Right: 3, Bottom: 4, Bitmap: bitmap}))

	select {
	case pkt := <-frames:
		require.Equal(t, uint32(3), pkt.Right)
		require.Equal(t, bitmap, pkt.Bitmap)
	case <-time.After(time.Second):
		t.Fatal("no screen frame event")
	}
	noFatal(t, rec)
}
