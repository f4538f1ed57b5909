package alliance

import (
	"context"
	"fmt"
	"sync"
)

type editCall struct {
	MemberID string
	Nickname string
}

// mockEditor records edits and answers with editFunc when set.
type mockEditor struct {
	mu       sync.Mutex
	calls    []editCall
	editFunc func(memberID string, nickname string) error
}

func (m *mockEditor) EditNickname(_ context.Context, member Member, nickname string) error {
	m.mu.Lock()
	m.calls = append(m.calls, editCall{MemberID: member.ID, Nickname: nickname})
	m.mu.Unlock()

	if m.editFunc != nil {
		return m.editFunc(member.ID, nickname)
	}
	return nil
}

type mockSender struct {
	channels []string
	replies  []Reply
	sendFunc func(channelID string, reply Reply) error
}

func (m *mockSender) SendEmbed(_ context.Context, channelID string, reply Reply) error {
	m.channels = append(m.channels, channelID)
	m.replies = append(m.replies, reply)
	if m.sendFunc != nil {
		return m.sendFunc(channelID, reply)
	}
	return nil
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
	infos []string
}

func (l *recordingLogger) Debugf(string, ...interface{}) {}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, fmt.Sprintf(format, args...))
}

var _ Logger = (*recordingLogger)(nil)
