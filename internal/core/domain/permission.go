package domain

// Action tokens gate UI affordances. They mirror the backend's permission
// vocabulary and are advisory on the client: the server re-authorizes every
// request regardless of what the UI exposes.
const (
	ActionCreateShipment  = "crear_envio"
	ActionQuoteShipment   = "cotizar_envio"
	ActionViewShipments   = "ver_envios"
	ActionTrackShipment   = "rastrear_envio"
	ActionChangeStatus    = "cambiar_estado"
	ActionScanLabel       = "escanear_qr"
	ActionConfirmDelivery = "confirmar_entrega"
	ActionViewReports     = "ver_reportes"
	ActionManageUsers     = "administrar_usuarios"

	// ActionWildcard grants every action, present and future.
	ActionWildcard = "*"
)

// permissionTable maps each role to its permitted action set.
var permissionTable = map[Role]map[string]struct{}{
	RoleOwner: {
		ActionWildcard: {},
	},
	RoleOperatorOrigin: {
		ActionCreateShipment: {},
		ActionQuoteShipment:  {},
		ActionViewShipments:  {},
		ActionScanLabel:      {},
	},
	RoleOperatorDestination: {
		ActionViewShipments:   {},
		ActionScanLabel:       {},
		ActionChangeStatus:    {},
		ActionConfirmDelivery: {},
	},
	RoleSender: {
		ActionCreateShipment: {},
		ActionQuoteShipment:  {},
		ActionViewShipments:  {},
		ActionTrackShipment:  {},
	},
	RoleRecipient: {
		ActionViewShipments: {},
		ActionTrackShipment: {},
	},
}

// RolePermits reports whether role may perform action, honoring the
// wildcard. Unknown roles permit nothing.
func RolePermits(role Role, action string) bool {
	set, ok := permissionTable[role]
	if !ok {
		return false
	}
	if _, ok := set[ActionWildcard]; ok {
		return true
	}
	_, ok = set[action]
	return ok
}
