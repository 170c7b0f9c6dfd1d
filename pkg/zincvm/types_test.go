package zincvm

import "testing"

func TestDefaultVMConfig(t *testing.T) {
	cfg := DefaultVMConfig()
	if cfg.StorageDepth != 32 {
		t.Errorf("DefaultVMConfig().StorageDepth = %d, want 32", cfg.StorageDepth)
	}
	if cfg.FieldModulus != "" {
		t.Errorf("DefaultVMConfig().FieldModulus = %q, want empty (default BN254 field)", cfg.FieldModulus)
	}
}

func TestVMConfigZeroStorageDepthDisablesStorage(t *testing.T) {
	v, err := NewVM(&VMConfig{StorageDepth: 0})
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}
	if v == nil {
		t.Fatal("NewVM should still succeed with storage disabled")
	}
}
