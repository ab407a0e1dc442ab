package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smail/backend/internal/domain"
	"smail/backend/internal/storage"
)

func TestStoreLeases(t *testing.T) {
	ctx := context.Background()

	t.Run("写入后读取成功", func(t *testing.T) {
		store := NewStore()

		err := store.SetWithTTL(ctx, "mailbox:alice@smail.pw", "token-1", time.Hour)
		assert.NoError(t, err)

		value, err := store.Get(ctx, "mailbox:alice@smail.pw")
		assert.NoError(t, err)
		assert.Equal(t, "token-1", value)
	})

	t.Run("不存在的键返回未找到", func(t *testing.T) {
		store := NewStore()

		_, err := store.Get(ctx, "mailbox:missing@smail.pw")
		assert.ErrorIs(t, err, storage.ErrLeaseNotFound)
	})

	t.Run("覆盖写入取最后一次的值", func(t *testing.T) {
		store := NewStore()

		assert.NoError(t, store.SetWithTTL(ctx, "k", "first", time.Hour))
		assert.NoError(t, store.SetWithTTL(ctx, "k", "second", time.Hour))

		value, err := store.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, "second", value)
	})

	t.Run("删除后读取返回未找到", func(t *testing.T) {
		store := NewStore()

		assert.NoError(t, store.SetWithTTL(ctx, "k", "v", time.Hour))
		assert.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Get(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrLeaseNotFound)
	})

	t.Run("删除不存在的键不报错", func(t *testing.T) {
		store := NewStore()
		assert.NoError(t, store.Delete(ctx, "missing"))
	})

	t.Run("TTL 到期后键自动消失", func(t *testing.T) {
		now := time.Now()
		store := NewStoreWithClock(func() time.Time { return now })

		assert.NoError(t, store.SetWithTTL(ctx, "k", "v", time.Minute))

		value, err := store.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, "v", value)

		now = now.Add(time.Minute) // 刚好到期
		_, err = store.Get(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrLeaseNotFound)
	})
}

func TestStoreMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("按时间倒序列出邮件", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store := NewStore()

		for i, subject := range []string{"oldest", "middle", "newest"} {
			err := store.SaveMessage(&domain.Message{
				Address:   "alice@smail.pw",
				Sender:    "peer@example.com",
				Subject:   subject,
				CreatedAt: now.Add(time.Duration(i) * time.Minute),
			})
			assert.NoError(t, err)
		}

		messages, err := store.ListMessages(ctx, "alice@smail.pw")
		assert.NoError(t, err)
		assert.Len(t, messages, 3)
		assert.Equal(t, "newest", messages[0].Subject)
		assert.Equal(t, "oldest", messages[2].Subject)
	})

	t.Run("空邮箱返回空列表", func(t *testing.T) {
		store := NewStore()

		messages, err := store.ListMessages(ctx, "empty@smail.pw")
		assert.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("读取与标记已读", func(t *testing.T) {
		store := NewStore()

		msg := &domain.Message{Address: "alice@smail.pw", Subject: "hello"}
		assert.NoError(t, store.SaveMessage(msg))
		assert.NotEmpty(t, msg.ID)

		got, err := store.GetMessage(ctx, "alice@smail.pw", msg.ID)
		assert.NoError(t, err)
		assert.False(t, got.Read)

		assert.NoError(t, store.MarkMessageRead(ctx, "alice@smail.pw", msg.ID))

		got, err = store.GetMessage(ctx, "alice@smail.pw", msg.ID)
		assert.NoError(t, err)
		assert.True(t, got.Read)
	})

	t.Run("读取不存在的邮件返回未找到", func(t *testing.T) {
		store := NewStore()

		_, err := store.GetMessage(ctx, "alice@smail.pw", "missing")
		assert.ErrorIs(t, err, storage.ErrMessageNotFound)
	})
}
