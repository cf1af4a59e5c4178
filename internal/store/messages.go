package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sourcebook/internal/logging"
	"sourcebook/internal/types"
)

// AppendMessage appends a message to a notebook's conversation log and
// returns the stored message with its assigned id and timestamp. The log is
// append-only; ordering equals insertion order.
func (s *LocalStore) AppendMessage(notebookID string, role types.MessageRole, contentType types.ContentType, text string, contentData []byte) (*types.ConversationMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getNotebookLocked(notebookID); err != nil {
		return nil, err
	}

	msg := &types.ConversationMessage{
		ID:          uuid.NewString(),
		NotebookID:  notebookID,
		Role:        role,
		Text:        text,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	if len(contentData) > 0 {
		msg.ContentData = append([]byte(nil), contentData...)
	}

	var data interface{}
	if msg.ContentData != nil {
		data = string(msg.ContentData)
	}
	_, err := s.db.Exec(
		`INSERT INTO messages(id, notebook_id, position, role, content_type, text, content_data, created_at)
		 VALUES(?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM messages WHERE notebook_id = ?), ?, ?, ?, ?, ?)`,
		msg.ID, notebookID, notebookID, string(role), string(contentType), text, data,
		msg.CreatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	logging.StoreDebug("Appended %s/%s message %s to notebook %s", role, contentType, msg.ID, notebookID)
	return msg, nil
}

// Messages returns a notebook's conversation log in insertion order.
func (s *LocalStore) Messages(notebookID string) ([]types.ConversationMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, notebook_id, role, content_type, text, content_data, created_at
		 FROM messages WHERE notebook_id = ? ORDER BY position`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]types.ConversationMessage, 0)
	for rows.Next() {
		var msg types.ConversationMessage
		var role, contentType, created string
		var data sql.NullString
		if err := rows.Scan(&msg.ID, &msg.NotebookID, &role, &contentType, &msg.Text, &data, &created); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = types.MessageRole(role)
		msg.ContentType = types.ContentType(contentType)
		if data.Valid && data.String != "" {
			msg.ContentData = []byte(data.String)
		}
		msg.CreatedAt = parseTime(created)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MessageCount returns the conversation log length for a notebook.
func (s *LocalStore) MessageCount(notebookID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE notebook_id = ?`, notebookID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}
