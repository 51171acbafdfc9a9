package medium

import "github.com/sarchlab/linksim/sim"

// Hook positions of the media and devices. The item of the hook context is a
// Delivery unless stated otherwise.
var (
	// HookPosSend marks an end device handing a frame to a connection. The
	// item is the frame.
	HookPosSend = &sim.HookPos{Name: "send"}

	// HookPosReceive marks an end device receiving a frame.
	HookPosReceive = &sim.HookPos{Name: "receive"}

	// HookPosBroadcast marks a hub repeating a frame to one connection.
	HookPosBroadcast = &sim.HookPos{Name: "broadcast"}

	// HookPosHubIdle marks a hub that has no connection to repeat to.
	HookPosHubIdle = &sim.HookPos{Name: "hub-idle"}

	// HookPosLearn marks a switch learning a device. The item is the
	// learned Entry.
	HookPosLearn = &sim.HookPos{Name: "learn"}

	// HookPosForward marks a switch sending a frame to a known destination.
	HookPosForward = &sim.HookPos{Name: "forward"}

	// HookPosFlood marks a switch sending a frame to one connection because
	// the destination is unknown.
	HookPosFlood = &sim.HookPos{Name: "flood"}

	// HookPosLoopbackDrop marks a switch dropping a frame whose destination
	// sits behind the connection the frame came from.
	HookPosLoopbackDrop = &sim.HookPos{Name: "loopback-drop"}

	// HookPosHopLimitDrop marks a frame that traveled too far.
	HookPosHopLimitDrop = &sim.HookPos{Name: "hop-limit-drop"}
)

func invokeHook(
	domain Node,
	now sim.VTimeInSec,
	pos *sim.HookPos,
	item interface{},
	detail interface{},
) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Now:    now,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
