package dto

import (
	"Sillage/internal/pkg/mongo"
	"time"
)

// SendMessageReq 发送消息请求体
type SendMessageReq struct {
	ConversationID uint64       `json:"conversation_id"`
	TargetUserID   uint64       `json:"target_user_id"`
	PerfumeID      uint64       `json:"perfume_id"` // 首次开聊时洽谈的香水, 0 表示闲聊
	MsgType        int          `json:"msg_type" binding:"required"` // 1-文本, 2-报价, 3-撤回
	Content        string       `json:"content" binding:"required"`
	Offer          *mongo.Offer `json:"offer,omitempty"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID             string       `json:"id,omitempty"`
	ConversationID uint64       `json:"conversation_id"`
	SenderID       uint64       `json:"sender_id"`
	MsgType        int          `json:"msg_type"`
	Content        string       `json:"content"`
	Offer          *mongo.Offer `json:"offer,omitempty"`
	Seq            uint64       `json:"seq"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	ConversationID uint64    `json:"conversation_id"`
	PeerID         uint64    `json:"peer_id"` // 对手方ID
	PerfumeID      uint64    `json:"perfume_id"`
	LastMsgContent string    `json:"last_msg_content"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	UnreadCount    uint64    `json:"unreadCount"`
	PeerReadSeq    uint64    `json:"peerReadSeq"`
}

// ReadReceiptDTO 已读回执推送
type ReadReceiptDTO struct {
	ConversationID uint64 `json:"conversation_id"`
	UserID         uint64 `json:"user_id"`
	ReadSeq        uint64 `json:"read_seq"`
	Type           string `json:"type"`
}

// MarkAsReadReq 标记为已读请求
type MarkAsReadReq struct {
	ConversationID uint64 `json:"conversation_id" binding:"required"`
	Sequence       uint64 `json:"sequence" binding:"required"` // 客户端当前看到的最后一条消息序号
}
