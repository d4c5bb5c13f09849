package transmission

import (
	"context"

	zvt "github.com/xx25/go-zvt"
)

// WriteFilesCommand builds a Command that announces every file in files to
// the PT and answers each RequestFile sub-request the PT sends back during
// the dialogue, ported from ecrterm's WriteFiles._handle_super_response/
// get_answer_. files maps a file id to its full content.
func WriteFilesCommand(password string, files map[byte][]byte) *Command {
	cmd := NewCommand(zvt.NewWriteFiles(password, files))
	cmd.SuperRespond = func(_ context.Context, sub zvt.Packet) (zvt.Packet, bool) {
		req, ok := sub.(*zvt.RequestFile)
		if !ok {
			return nil, false
		}
		wantID, offset, ok := req.RequestedFile()
		if !ok {
			return nil, false
		}
		content, known := files[wantID]
		if !known {
			return nil, false
		}
		end := offset + maxFileChunk
		if end > uint32(len(content)) || end < offset {
			end = uint32(len(content))
		}
		if offset > uint32(len(content)) {
			offset = uint32(len(content))
		}
		return zvt.NewFileAnswer(wantID, offset, content[offset:end]), true
	}
	return cmd
}

// maxFileChunk caps a single RequestFile answer, mirroring ecrterm's
// readlength = 65000 in WriteFiles.get_answer_.
const maxFileChunk = 65000
