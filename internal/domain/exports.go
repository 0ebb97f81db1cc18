package domain

import (
	interfaces "peerlink/internal/domain/interfaces"
	types "peerlink/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username        = types.Username
	IdentifyMode    = types.IdentifyMode
	EncryptionSuite = types.EncryptionSuite
	SessionType     = types.SessionType
	PeerVersion     = types.PeerVersion
	ErrorCode       = types.ErrorCode
	ClientContext   = types.ClientContext
	HandshakeResult = types.HandshakeResult
	X25519Public    = types.X25519Public
	X25519Private   = types.X25519Private
)

const (
	IdentifyAnonymous = types.IdentifyAnonymous
	IdentifySRP       = types.IdentifySRP

	SuiteAES256GCM        = types.SuiteAES256GCM
	SuiteChaCha20Poly1305 = types.SuiteChaCha20Poly1305

	SessionDesktopView   = types.SessionDesktopView
	SessionDesktopManage = types.SessionDesktopManage
	SessionFileTransfer  = types.SessionFileTransfer

	Success       = types.Success
	NetworkError  = types.NetworkError
	ProtocolError = types.ProtocolError
	AccessDenied  = types.AccessDenied
	SessionDenied = types.SessionDenied
	UnknownError  = types.UnknownError
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	ChannelListener = interfaces.ChannelListener
	Encryptor       = interfaces.Encryptor
	Decryptor       = interfaces.Decryptor
	MessageChannel  = interfaces.MessageChannel
)
