package transmission

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zvt "github.com/xx25/go-zvt"
)

// fakeLink scripts a fixed sequence of incoming APDU bytes and records
// every outgoing Send call, standing in for a real serial.Framer/TCPLink
// in engine tests (the teacher's loopback_test.go role, minus the pipe).
type fakeLink struct {
	incoming [][]byte
	sent     [][]byte
}

func (f *fakeLink) Send(payload []byte) error {
	f.sent = append(f.sent, append([]byte{}, payload...))
	return nil
}

func (f *fakeLink) Receive() ([]byte, error) {
	if len(f.incoming) == 0 {
		return nil, errFakeLinkExhausted
	}
	next := f.incoming[0]
	f.incoming = f.incoming[1:]
	return next, nil
}

var errFakeLinkExhausted = fmt.Errorf("fakeLink: no scripted responses remain")

func mustSerialize(t *testing.T, p zvt.Packet) []byte {
	t.Helper()
	data, err := p.Serialize(context.Background())
	require.NoError(t, err)
	return data
}

func TestEngineRunCompletes(t *testing.T) {
	link := &fakeLink{incoming: [][]byte{
		mustSerialize(t, zvt.NewCompletion()),
	}}
	eng := New(link)

	cmd := NewCommand(zvt.NewLogOff())
	result, err := eng.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, Result{Code: 0}, result)
	assert.Equal(t, Completed, eng.State())

	// command itself, then the PacketReceived ack for the Completion.
	require.Len(t, link.sent, 2)
	assert.Equal(t, mustSerialize(t, zvt.NewPacketReceived()), link.sent[1])
}

func TestEngineRunAborts(t *testing.T) {
	link := &fakeLink{incoming: [][]byte{
		mustSerialize(t, zvt.NewAbort(0x65)),
	}}
	eng := New(link)

	cmd := NewCommand(zvt.NewStatusEnquiry("000000"))
	result, err := eng.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, Result{Code: 0x65, Aborted: true}, result)
	assert.Equal(t, Aborted, eng.State())
}

func TestEngineRunWaitForCompletionFalseSkipsResponseLoop(t *testing.T) {
	link := &fakeLink{}
	eng := New(link)

	cmd := &Command{Packet: zvt.NewLogOff(), WaitForCompletion: false}
	result, err := eng.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, Result{Code: 0}, result)
	assert.Equal(t, Completed, eng.State())
	assert.Empty(t, link.incoming)
}

func TestEngineRunInvokesListenerOnIntermediateResponse(t *testing.T) {
	link := &fakeLink{incoming: [][]byte{
		mustSerialize(t, zvt.NewPacketReceived()),
		mustSerialize(t, zvt.NewCompletion()),
	}}
	eng := New(link)

	var seen []zvt.Packet
	cmd := NewCommand(zvt.NewLogOff())
	cmd.OnIntermediate = func(_ context.Context, r zvt.Packet) {
		seen = append(seen, r)
	}

	result, err := eng.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, Result{Code: 0}, result)
	require.Len(t, seen, 1)
	_, ok := seen[0].(*zvt.PacketReceived)
	assert.True(t, ok)
}

func TestEngineRunPropagatesPacketReceivedError(t *testing.T) {
	raw := append([]byte{zvt.RespError, 0x00}, mustLenBody(t)...)
	link := &fakeLink{incoming: [][]byte{raw}}
	eng := New(link)

	_, err := eng.Run(context.Background(), NewCommand(zvt.NewLogOff()))
	assert.Error(t, err)
	assert.Equal(t, TransportFailed, eng.State())
}

// mustLenBody returns the zero-length body/length-field bytes shared by
// every fixed-length-0 APDU, since PacketReceivedError carries no fields.
func mustLenBody(t *testing.T) []byte {
	t.Helper()
	return []byte{0x00}
}

func TestEngineRunAnswersWriteFilesRequestFile(t *testing.T) {
	content := []byte("hello terminal")
	link := &fakeLink{incoming: [][]byte{
		mustSerialize(t, zvt.NewRequestFile(0x01, 0)),
		mustSerialize(t, zvt.NewCompletion()),
	}}
	eng := New(link)

	cmd := WriteFilesCommand("000000", map[byte][]byte{0x01: content})
	result, err := eng.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, Result{Code: 0}, result)

	// command, the file-answer, then the Completion ack.
	require.Len(t, link.sent, 3)
	answer := link.sent[1]
	parsed, err := zvt.ParseAPDU(context.Background(), answer)
	require.NoError(t, err)
	pr, ok := parsed.(*zvt.PacketReceived)
	require.True(t, ok)
	tlvVal, ok := pr.Get("tlv")
	require.True(t, ok)
	node, ok := tlvVal.(*zvt.TLVNode)
	require.True(t, ok)
	child := node.At(0x2d)
	assert.Equal(t, content, child.At(0x1c).Value)
}
