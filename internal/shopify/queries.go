package shopify

// cartFragment is the cart selection shared by the cart query and every cart
// mutation, so reads and mutation results stay shape-compatible.
const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  buyerIdentity {
    email
    phone
    countryCode
  }
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
  }
  discountCodes {
    code
    applicable
  }
  appliedGiftCards {
    id
    lastCharacters
    amountUsed {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    nodes {
      id
      quantity
      attributes {
        key
        value
      }
      cost {
        amountPerQuantity {
          amount
          currencyCode
        }
        totalAmount {
          amount
          currencyCode
        }
      }
      merchandise {
        ... on ProductVariant {
          id
          title
          sku
          requiresShipping
          price {
            amount
            currencyCode
          }
          product {
            id
            title
            handle
          }
        }
      }
    }
  }
}
`

// CartQuery fetches a cart by id.
const CartQuery = cartFragment + `
query getCart($cartId: ID!) {
  cart(id: $cartId) {
    ...CartFields
  }
}
`

// CartCreateMutation creates a cart with initial lines.
const CartCreateMutation = cartFragment + `
mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartLinesAddMutation adds lines to an existing cart.
const CartLinesAddMutation = cartFragment + `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartLinesUpdateMutation updates quantity or attributes on existing lines.
const CartLinesUpdateMutation = cartFragment + `
mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartLinesRemoveMutation removes lines from a cart.
const CartLinesRemoveMutation = cartFragment + `
mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartDiscountCodesUpdateMutation replaces the cart's discount codes.
const CartDiscountCodesUpdateMutation = cartFragment + `
mutation cartDiscountCodesUpdate($cartId: ID!, $discountCodes: [String!]) {
  cartDiscountCodesUpdate(cartId: $cartId, discountCodes: $discountCodes) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartGiftCardCodesUpdateMutation applies gift card codes to the cart.
const CartGiftCardCodesUpdateMutation = cartFragment + `
mutation cartGiftCardCodesUpdate($cartId: ID!, $giftCardCodes: [String!]!) {
  cartGiftCardCodesUpdate(cartId: $cartId, giftCardCodes: $giftCardCodes) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartBuyerIdentityUpdateMutation updates buyer identity (email etc.) on the cart.
const CartBuyerIdentityUpdateMutation = cartFragment + `
mutation cartBuyerIdentityUpdate($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductPricingQuery fetches a product by handle with its custom pricing
// metafields (aliased) and variants. The metafield namespace is a variable so
// stores using a different namespace keep working.
const ProductPricingQuery = `
query getProductPricing($handle: String!, $namespace: String!) {
  product(handle: $handle) {
    id
    title
    handle
    description
    featuredImage {
      url
      altText
    }
    priceRange {
      minVariantPrice {
        amount
        currencyCode
      }
    }
    customPrice: metafield(namespace: $namespace, key: "price") {
      type
      value
    }
    discountPercentage: metafield(namespace: $namespace, key: "discount_percentage") {
      type
      value
    }
    discountFixedAmount: metafield(namespace: $namespace, key: "discount_fixed_amount") {
      type
      value
    }
    variants(first: 100) {
      nodes {
        id
        title
        sku
        availableForSale
        price {
          amount
          currencyCode
        }
        compareAtPrice {
          amount
          currencyCode
        }
        customPrice: metafield(namespace: $namespace, key: "price") {
          type
          value
        }
        discountPercentage: metafield(namespace: $namespace, key: "discount_percentage") {
          type
          value
        }
        discountFixedAmount: metafield(namespace: $namespace, key: "discount_fixed_amount") {
          type
          value
        }
      }
    }
  }
}
`

// CollectionProductsQuery lists a collection's products with pagination
// cursors, each with the custom pricing metafields needed for price display.
const CollectionProductsQuery = `
query getCollectionProducts($handle: String!, $namespace: String!, $first: Int!, $after: String) {
  collection(handle: $handle) {
    id
    title
    products(first: $first, after: $after) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        id
        title
        handle
        featuredImage {
          url
          altText
        }
        priceRange {
          minVariantPrice {
            amount
            currencyCode
          }
        }
        customPrice: metafield(namespace: $namespace, key: "price") {
          type
          value
        }
        discountPercentage: metafield(namespace: $namespace, key: "discount_percentage") {
          type
          value
        }
        discountFixedAmount: metafield(namespace: $namespace, key: "discount_fixed_amount") {
          type
          value
        }
      }
    }
  }
}
`

// QuickViewSettingsQuery fetches the quick-view settings metaobject.
const QuickViewSettingsQuery = `
query getQuickViewSettings {
  metaobject(handle: {handle: "settings", type: "quick_view_settings"}) {
    enable_quick_view: field(key: "enable_quick_view") {
      value
    }
    button_position: field(key: "button_position") {
      value
    }
    title_font_size_desktop: field(key: "title_font_size_desktop") {
      value
    }
    title_font_size_mobile: field(key: "title_font_size_mobile") {
      value
    }
    price_font_size_desktop: field(key: "price_font_size_desktop") {
      value
    }
    price_font_size_mobile: field(key: "price_font_size_mobile") {
      value
    }
    button_font_size_desktop: field(key: "button_font_size_desktop") {
      value
    }
    button_font_size_mobile: field(key: "button_font_size_mobile") {
      value
    }
    element_order: field(key: "element_order") {
      value
    }
  }
}
`
