package rules

import "testing"

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	killCount := 0
	gameOverCount := 0

	bus.SubscribeTyped(EventKill, func(e Event) {
		killCount++
	})
	bus.SubscribeTyped(EventGameOver, func(e Event) {
		gameOverCount++
	})

	bus.Publish(Event{Type: EventKill, PlayerID: "alice", TargetID: "bob"})
	if killCount != 1 {
		t.Fatalf("expected kill count 1, got %d", killCount)
	}
	if gameOverCount != 0 {
		t.Fatalf("expected game over count 0, got %d", gameOverCount)
	}

	bus.Publish(Event{Type: EventGameOver, PlayerID: "alice"})
	bus.Publish(Event{Type: EventTurn})
	if gameOverCount != 1 || killCount != 1 {
		t.Fatalf("expected kill 1 and game over 1, got %d and %d", killCount, gameOverCount)
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	var seen []EventType
	bus.Subscribe(func(e Event) {
		seen = append(seen, e.Type)
	})

	bus.Publish(Event{Type: EventTurn})
	bus.Publish(Event{Type: EventShift})
	bus.Publish(Event{Type: EventElimination})

	if len(seen) != 3 || seen[0] != EventTurn || seen[2] != EventElimination {
		t.Fatalf("unexpected events %v", seen)
	}
}

func TestEventBusDeliversCatchAllFirst(t *testing.T) {
	bus := NewEventBus()

	var order []string
	bus.SubscribeTyped(EventGameOver, func(Event) { order = append(order, "typed") })
	bus.Subscribe(func(Event) { order = append(order, "all") })

	bus.Publish(Event{Type: EventGameOver})
	if len(order) != 2 || order[0] != "all" || order[1] != "typed" {
		t.Fatalf("unexpected delivery order %v", order)
	}
}

func TestEventBusIgnoresNilListeners(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(nil)
	bus.SubscribeTyped(EventKill, nil)
	bus.Publish(Event{Type: EventKill})
}
