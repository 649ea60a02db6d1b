package outbox

const topic = "events_to_forward"
