// Package ecs provides ECS adapters for boardfx.
//
// The primary adapter is [NewBridge], which forwards board changes detected
// by a boardfx engine and cell clicks from a pointer input into a [Donburi]
// world as typed events. Subscribe to [ChangeEventType] and
// [CellClickEventType] in your ECS systems to receive them.
//
// Usage:
//
//	bridge := ecs.NewBridge(world)
//	bridge.Attach(engine, host.Input())
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
