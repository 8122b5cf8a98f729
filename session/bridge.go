package session

import (
	"errors"
	"fmt"

	"github.com/rodrigorfk/teleport/packet"
	"github.com/rodrigorfk/teleport/sharedir"
)

// The directory request bridge. Each inbound request runs its provider
// operation on its own goroutine carrying the decoded request value, so
// pipelined requests stay independent and responses go out in
// completion order, every one echoing its own completion id.

func (sn *Session) handleInDirInfoRequest(frame []byte) error {
	req := &packet.DirInfoRequestPacket{}
	err := req.Decode(frame)
	if err != nil {
		return err
	}
	provider, ok := sn.shareProvider(req.DirectoryID)
	if !ok {
		return fmt.Errorf("info request for unknown directoryID: %d, completionID: %d",
			req.DirectoryID, req.CompletionID)
	}
	go sn.completeInfoRequest(provider, req)
	return nil
}

func (sn *Session) completeInfoRequest(provider sharedir.Provider, req *packet.DirInfoRequestPacket) {
	entry, err := provider.Info(sn.ctx, req.Path)
	if err != nil {
		if errors.Is(err, sharedir.ErrDoesNotExist) {
			// in-band negative result, not a session failure
			sn.log.Debugf("info request path missing, completionID: %d, path: %s",
				req.CompletionID, req.Path)
			sn.send(sn.pf.NewDirInfoNotFoundPacket(req))
			return
		}
		sn.fatal(fmt.Errorf("info request err: %w, completionID: %d, path: %s",
			err, req.CompletionID, req.Path))
		return
	}
	sn.send(sn.pf.NewDirInfoResponsePacket(req, packet.ErrCodeNone, wireEntry(entry)))
}

func (sn *Session) handleInDirReadRequest(frame []byte) error {
	req := &packet.DirReadRequestPacket{}
	err := req.Decode(frame)
	if err != nil {
		return err
	}
	provider, ok := sn.shareProvider(req.DirectoryID)
	if !ok {
		return fmt.Errorf("read request for unknown directoryID: %d, completionID: %d",
			req.DirectoryID, req.CompletionID)
	}
	go sn.completeReadRequest(provider, req)
	return nil
}

func (sn *Session) completeReadRequest(provider sharedir.Provider, req *packet.DirReadRequestPacket) {
	// the requested length is untrusted; anything past what one
	// response frame can carry would only buy an allocation, the
	// short read tells the peer to re-request
	length := req.Length
	if length > packet.MaxReadDataLen {
		length = packet.MaxReadDataLen
	}
	// unlike info, a missing path is not special-cased here: every
	// read failure is terminal
	data, err := provider.Read(sn.ctx, req.Path, req.Offset, length)
	if err != nil {
		sn.fatal(fmt.Errorf("read request err: %w, completionID: %d, path: %s",
			err, req.CompletionID, req.Path))
		return
	}
	sn.send(sn.pf.NewDirReadResponsePacket(req, packet.ErrCodeNone, data))
}

func (sn *Session) handleInDirListRequest(frame []byte) error {
	req := &packet.DirListRequestPacket{}
	err := req.Decode(frame)
	if err != nil {
		return err
	}
	provider, ok := sn.shareProvider(req.DirectoryID)
	if !ok {
		return fmt.Errorf("list request for unknown directoryID: %d, completionID: %d",
			req.DirectoryID, req.CompletionID)
	}
	go sn.completeListRequest(provider, req)
	return nil
}

func (sn *Session) completeListRequest(provider sharedir.Provider, req *packet.DirListRequestPacket) {
	entries, err := provider.List(sn.ctx, req.Path)
	if err != nil {
		sn.fatal(fmt.Errorf("list request err: %w, completionID: %d, path: %s",
			err, req.CompletionID, req.Path))
		return
	}
	wireEntries := make([]packet.DirEntry, 0, len(entries))
	for _, entry := range entries {
		wireEntries = append(wireEntries, wireEntry(entry))
	}
	sn.send(sn.pf.NewDirListResponsePacket(req, packet.ErrCodeNone, wireEntries))
}

// handleInDirWriteRequest accepts the write leg without answering it;
// the response side of this exchange is not implemented yet.
// TODO answer with DirWriteResponsePacket once the write leg of the
// protocol is completed.
func (sn *Session) handleInDirWriteRequest(frame []byte) error {
	req := &packet.DirWriteRequestPacket{}
	err := req.Decode(frame)
	if err != nil {
		return err
	}
	sn.log.Infof("write request accepted, no response sent, completionID: %d, path: %s, bytes: %d",
		req.CompletionID, req.Path, len(req.Data))
	return nil
}

// wireEntry normalizes a provider entry onto the wire shape.
func wireEntry(entry *sharedir.Entry) packet.DirEntry {
	kind := packet.EntryFile
	if entry.IsDir {
		kind = packet.EntryDir
	}
	return packet.DirEntry{
		Path:         entry.Path,
		Kind:         kind,
		Size:         uint64(entry.Size),
		LastModified: uint64(entry.ModTime.Unix()),
	}
}
