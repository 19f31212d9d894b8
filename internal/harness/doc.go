// Package harness runs scripted store scenarios and checks their outcome.
//
// A scenario drives a fresh store through a sequence of operations, records
// every operation and its outcome as a trace, and evaluates assertions over
// that trace and over the final store contents. Traces are deterministic, so
// they can be compared against golden files.
//
// # Scenario Format
//
//	name: order_delivered
//	description: "What this scenario validates"
//	index_mode: derived            # optional, derived (default) or legacy
//	setup:
//	  - action: addProduct
//	    args: { name: Lamp, price: 500, quantity: 10 }
//	flow:
//	  - invoke: addOrder
//	    args: { productName: Lamp, phoneNumber: "+1000", ... }
//	    expect:
//	      case: Success
//	      result: { id: id-2 }
//	assertions:
//	  - type: trace_contains
//	    action: addOrder
//	    args: { phoneNumber: "+1000" }
//	  - type: final_state
//	    table: customers
//	    where: { phoneNumber: "+1000" }
//	    expect: { orderCount: 1 }
//
// # Actions
//
// Every store operation is available under its method name in lower camel
// case (addProduct, updateOrderStatus, deleteCustomerOrder, ...). The extra
// action restart reopens the store over the same database.
//
// Payloads of addProduct, updateProduct, addOrder and updateOrder are
// checked against the input schema first; a rejected payload completes with
// case Error and leaves the store untouched.
//
// # Assertion Types
//
//   - trace_contains: an invocation of action whose args include args
//   - trace_order: the first invocations of actions appear in this order
//   - trace_count: action was invoked exactly count times
//   - final_state: rows of products, orders, customers or preferences
//     matching where; expect requires exactly one match, rows checks the
//     number of matches
//   - notifications: the success notification was shown count times
//
// # Deterministic Testing
//
// Each run uses an in-memory SQLite database, a clock starting at
// testutil.Epoch advancing 1ms per entity, and IDs id-1, id-2, ...
package harness
