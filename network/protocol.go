package network

// Message IDs. 1xx are client requests, 2xx are responses scoped to the
// requester, 3xx are room broadcasts, 4xx are global (lobby) broadcasts.
const (
	MsgTypeHeartbeat = 1

	MsgTypeCreateRoom     = 101
	MsgTypeListRooms      = 102
	MsgTypeJoinRoom       = 103
	MsgTypeLeaveRoom      = 104
	MsgTypeReadyToPlay    = 105
	MsgTypeMarkAttempt    = 106
	MsgTypeDeclareBingo   = 107
	MsgTypeRoomChat       = 108
	MsgTypeRequestRestore = 109

	MsgTypeRoomCreated      = 201
	MsgTypeRoomCreateFailed = 202
	MsgTypeRoomsList        = 203
	MsgTypeJoinedRoom       = 204
	MsgTypeJoinRoomFailed   = 205
	MsgTypeReadyFailed      = 206
	MsgTypeBalanceUpdated   = 207
	MsgTypeMarkApproved     = 208
	MsgTypeDeclareRejected  = 209
	MsgTypeRestoreData      = 210

	MsgTypePlayerJoinedRoom = 301
	MsgTypePlayerLeftRoom   = 302
	MsgTypePlayerReady      = 303
	MsgTypeGameStarted      = 304
	MsgTypeNewNumber        = 305
	MsgTypeGameWon          = 306
	MsgTypeGameEnded        = 307
	MsgTypeGameState        = 308
	MsgTypeGameReset        = 309
	MsgTypeNewHost          = 310
	MsgTypeRoomChatMessage  = 311

	MsgTypeNewRoomAvailable = 401
	MsgTypeRoomUpdated      = 402
	MsgTypeRoomClosed       = 403
)
